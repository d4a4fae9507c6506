package world

import (
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// EventType определяет тип события мира
type EventType uint8

const (
	EventTypeBlockChange      EventType = iota // Игрок изменил блок
	EventTypeSmallItemPlace                    // Положен мелкий предмет
	EventTypeSmallItemRemove                   // Подобран мелкий предмет
	EventTypePropPlace                         // Поставлена мебель
	EventTypePropRemove                        // Убрана мебель
)

var eventNames = map[EventType]string{
	EventTypeBlockChange:     "BlockChange",
	EventTypeSmallItemPlace:  "SmallItemPlace",
	EventTypeSmallItemRemove: "SmallItemRemove",
	EventTypePropPlace:       "PropPlace",
	EventTypePropRemove:      "PropRemove",
}

func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n
	}
	return "Unknown"
}

// Event представляет собой интерфейс для всех событий мира
type Event interface {
	GetType() EventType
}

// EventSink получает события мира. Вызывается без удержания блокировки мира.
type EventSink func(Event)

// BlockEvent описывает изменение блока игроком
type BlockEvent struct {
	Position     vec.Vec3        `json:"position"`
	Old          block.BlockType `json:"old"`
	New          block.BlockType `json:"new"`
	PlayerPlaced bool            `json:"player_placed"`
}

// GetType возвращает тип события
func (e BlockEvent) GetType() EventType {
	return EventTypeBlockChange
}

// SmallItemEvent описывает появление или исчезновение мелкого предмета
type SmallItemEvent struct {
	EventType EventType `json:"-"`
	Item      SmallItem `json:"item"`
}

// GetType возвращает тип события
func (e SmallItemEvent) GetType() EventType {
	return e.EventType
}

// PropEvent описывает появление или исчезновение мебели
type PropEvent struct {
	EventType EventType     `json:"-"`
	Prop      PropPlacement `json:"prop"`
}

// GetType возвращает тип события
func (e PropEvent) GetType() EventType {
	return e.EventType
}
