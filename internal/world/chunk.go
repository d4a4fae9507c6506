package world

import (
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// ChunkVolume содержит количество клеток в чанке 16x16x16
const ChunkVolume = vec.ChunkSize * vec.ChunkSize * vec.ChunkSize

// Chunk представляет участок мира размером 16x16x16 блоков.
// Блоки хранятся плоским массивом по локальному смещению.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в мире

	Blocks [ChunkVolume]block.BlockType

	// Локальные индексы клеток, изменённых игроком с момента последнего сохранения
	Changes       map[int]struct{}
	ChangeCounter int // Счетчик изменений
}

// NewChunk создаёт пустой чанк с указанными координатами
func NewChunk(coords vec.Vec3) *Chunk {
	return &Chunk{
		Coords:  coords,
		Changes: make(map[int]struct{}),
	}
}

// localIndex преобразует локальные координаты в индекс массива
func localIndex(local vec.Vec3) int {
	return (local.Y*vec.ChunkSize+local.Z)*vec.ChunkSize + local.X
}

// localFromIndex выполняет обратное преобразование
func localFromIndex(i int) vec.Vec3 {
	return vec.Vec3{
		X: i % vec.ChunkSize,
		Z: (i / vec.ChunkSize) % vec.ChunkSize,
		Y: i / (vec.ChunkSize * vec.ChunkSize),
	}
}

// GetBlock возвращает тип блока по локальным координатам
func (c *Chunk) GetBlock(local vec.Vec3) block.BlockType {
	return c.Blocks[localIndex(local)]
}

// SetBlock устанавливает блок по локальным координатам
func (c *Chunk) SetBlock(local vec.Vec3, t block.BlockType) {
	c.Blocks[localIndex(local)] = t
}

// markChanged отмечает клетку как изменённую игроком
func (c *Chunk) markChanged(local vec.Vec3) {
	c.Changes[localIndex(local)] = struct{}{}
	c.ChangeCounter++
}

// HasChanges возвращает true, если в чанке есть несохранённые изменения
func (c *Chunk) HasChanges() bool {
	return c.ChangeCounter > 0
}

// ClearChanges очищает список изменений
func (c *Chunk) ClearChanges() {
	c.Changes = make(map[int]struct{})
	c.ChangeCounter = 0
}

// WorldPos возвращает мировые координаты клетки по локальным
func (c *Chunk) WorldPos(local vec.Vec3) vec.Vec3 {
	return c.Coords.ChunkOrigin().Add(local)
}
