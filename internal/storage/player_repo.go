package storage

import (
	"context"
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ragamuffin/voxelcore/internal/inventory"
)

// ErrInvalidPlayer возвращается для пустого имени игрока
var ErrInvalidPlayer = errors.New("недействительное имя игрока")

// PlayerState хранит состояние игрока между сессиями
type PlayerState struct {
	Feet  mgl64.Vec3       `json:"feet"`
	Look  mgl64.Vec3       `json:"look"`
	Slots []inventory.Slot `json:"slots"`
}

// PlayerRepo сохраняет и загружает состояние игроков по имени.
type PlayerRepo interface {
	Save(ctx context.Context, name string, st PlayerState) error
	// Load возвращает found == false при первом входе игрока
	Load(ctx context.Context, name string) (st PlayerState, found bool, err error)
	Delete(ctx context.Context, name string) error
}

// checkRequest проверяет имя и отмену контекста
func checkRequest(ctx context.Context, name string) error {
	if name == "" {
		return ErrInvalidPlayer
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}
