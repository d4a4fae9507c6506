package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/ragamuffin/voxelcore/internal/inventory"
)

// MemoryPlayerRepo реализует PlayerRepo в памяти.
// Используется, когда каталог хранилища не задан. Данные теряются при выходе.
type MemoryPlayerRepo struct {
	mu   sync.RWMutex
	data map[string]PlayerState
}

// NewMemoryPlayerRepo создаёт пустой репозиторий
func NewMemoryPlayerRepo() *MemoryPlayerRepo {
	return &MemoryPlayerRepo{
		data: make(map[string]PlayerState),
	}
}

// Save сохраняет копию состояния игрока
func (r *MemoryPlayerRepo) Save(ctx context.Context, name string, st PlayerState) error {
	if err := checkRequest(ctx, name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[name] = clonePlayer(st)
	return nil
}

// Load загружает состояние игрока
func (r *MemoryPlayerRepo) Load(ctx context.Context, name string) (PlayerState, bool, error) {
	if err := checkRequest(ctx, name); err != nil {
		return PlayerState{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.data[name]
	if !ok {
		return PlayerState{}, false, nil
	}
	return clonePlayer(st), true, nil
}

// Delete удаляет состояние игрока
func (r *MemoryPlayerRepo) Delete(ctx context.Context, name string) error {
	if err := checkRequest(ctx, name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[name]; !ok {
		return fmt.Errorf("состояние игрока %s не найдено", name)
	}
	delete(r.data, name)
	return nil
}

// Count возвращает количество сохранённых игроков (для отладки)
func (r *MemoryPlayerRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func clonePlayer(st PlayerState) PlayerState {
	slots := make([]inventory.Slot, len(st.Slots))
	copy(slots, st.Slots)
	st.Slots = slots
	return st
}
