package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// ErrIndexOutOfRange возвращается при обращении к несуществующему элементу списка
var ErrIndexOutOfRange = errors.New("index out of range")

// World хранит воксельную сетку, разбитую на чанки, вместе с отметками
// о том, какие блоки поставлены игроком, мелкими предметами и мебелью.
//
// Чанки генерируются лениво при первом обращении. Генерация идёт в локальный
// буфер вне блокировки, а готовый чанк публикуется целиком, поэтому читатель
// никогда не видит частично сгенерированный чанк.
type World struct {
	mu sync.RWMutex

	seed      int64
	generator *WorldGenerator
	chunks    map[vec.Vec3]*Chunk

	// Клетки, последний раз изменённые игроком и содержащие не воздух
	playerPlaced map[vec.Vec3]struct{}

	smallItems []SmallItem
	props      []PropPlacement

	metrics *metrics.Metrics
	sink    EventSink
}

// Option настраивает World при создании
type Option func(*World)

// WithMetrics подключает метрики Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *World) {
		w.metrics = m
	}
}

// WithEventSink подписывает получателя событий мира
func WithEventSink(sink EventSink) Option {
	return func(w *World) {
		w.sink = sink
	}
}

// NewWorld создаёт мир с указанным сидом
func NewWorld(seed int64, opts ...Option) *World {
	w := &World{
		seed:         seed,
		generator:    NewWorldGenerator(seed),
		chunks:       make(map[vec.Vec3]*Chunk),
		playerPlaced: make(map[vec.Vec3]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Seed возвращает сид мира
func (w *World) Seed() int64 {
	return w.seed
}

// Generator возвращает генератор мира
func (w *World) Generator() *WorldGenerator {
	return w.generator
}

// InBounds сообщает, лежит ли высота в пределах мира
func InBounds(y int) bool {
	return y >= MinHeight && y < MaxHeight
}

// chunkLocked возвращает чанк, генерируя его при необходимости.
// Вызывающий должен удерживать w.mu на запись.
func (w *World) chunkLocked(coords vec.Vec3) *Chunk {
	if c, ok := w.chunks[coords]; ok {
		return c
	}
	c := w.generator.GenerateChunk(coords)
	w.chunks[coords] = c
	w.metrics.ChunkGenerated()
	return c
}

// chunkForRead возвращает чанк для чтения, генерируя и публикуя его при первом обращении
func (w *World) chunkForRead(coords vec.Vec3) *Chunk {
	w.mu.RLock()
	c, ok := w.chunks[coords]
	w.mu.RUnlock()
	if ok {
		return c
	}

	generated := w.generator.GenerateChunk(coords)

	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.chunks[coords]; ok {
		// Другой читатель успел опубликовать тот же чанк
		return existing
	}
	w.chunks[coords] = generated
	w.metrics.ChunkGenerated()
	return generated
}

// GetBlock возвращает тип блока в мировых координатах
func (w *World) GetBlock(x, y, z int) block.BlockType {
	if !InBounds(y) {
		return block.Air
	}
	pos := vec.Vec3{X: x, Y: y, Z: z}
	c := w.chunkForRead(pos.ToChunkCoords())

	w.mu.RLock()
	defer w.mu.RUnlock()
	return c.GetBlock(pos.LocalInChunk())
}

// SetBlock выполняет запись генератора: клетка перестаёт считаться поставленной игроком
func (w *World) SetBlock(x, y, z int, t block.BlockType) {
	if !InBounds(y) {
		return
	}
	pos := vec.Vec3{X: x, Y: y, Z: z}

	w.mu.Lock()
	defer w.mu.Unlock()

	c := w.chunkLocked(pos.ToChunkCoords())
	c.SetBlock(pos.LocalInChunk(), t)
	delete(w.playerPlaced, pos)
}

// SetPlayerBlock выполняет запись игрока.
// Непустой блок помечается как поставленный игроком; воздух никогда не помечается.
func (w *World) SetPlayerBlock(x, y, z int, t block.BlockType) {
	if !InBounds(y) {
		return
	}
	pos := vec.Vec3{X: x, Y: y, Z: z}

	w.mu.Lock()
	c := w.chunkLocked(pos.ToChunkCoords())
	local := pos.LocalInChunk()
	old := c.GetBlock(local)
	c.SetBlock(local, t)
	c.markChanged(local)

	if t.IsAir() {
		delete(w.playerPlaced, pos)
	} else {
		w.playerPlaced[pos] = struct{}{}
	}
	w.mu.Unlock()

	w.emit(BlockEvent{Position: pos, Old: old, New: t, PlayerPlaced: !t.IsAir()})
}

func (w *World) emit(ev Event) {
	if w.sink != nil {
		w.sink(ev)
	}
}

// IsPlayerPlaced сообщает, поставлен ли блок в клетке игроком
func (w *World) IsPlayerPlaced(x, y, z int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.playerPlaced[vec.Vec3{X: x, Y: y, Z: z}]
	return ok
}

// PlayerPlacedBlocks возвращает отсортированный список клеток с блоками игрока
func (w *World) PlayerPlacedBlocks() []vec.Vec3 {
	w.mu.RLock()
	out := make([]vec.Vec3, 0, len(w.playerPlaced))
	for pos := range w.playerPlaced {
		out = append(out, pos)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// PlayerBlockCount возвращает количество блоков, поставленных игроком
func (w *World) PlayerBlockCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.playerPlaced)
}

// LoadedChunks возвращает количество чанков в памяти
func (w *World) LoadedChunks() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// CellChange описывает состояние клетки, изменённой игроком
type CellChange struct {
	Pos          vec.Vec3
	Type         block.BlockType
	PlayerPlaced bool
}

// DirtyChunks возвращает координаты чанков с несохранёнными изменениями игрока
func (w *World) DirtyChunks() []vec.Vec3 {
	w.mu.RLock()
	out := make([]vec.Vec3, 0)
	for coords, c := range w.chunks {
		if c.HasChanges() {
			out = append(out, coords)
		}
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// ChunkChanges возвращает текущее состояние всех клеток чанка, изменённых игроком
func (w *World) ChunkChanges(coords vec.Vec3) []CellChange {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.chunks[coords]
	if !ok {
		return nil
	}

	out := make([]CellChange, 0, len(c.Changes))
	for idx := range c.Changes {
		local := localFromIndex(idx)
		pos := c.WorldPos(local)
		_, placed := w.playerPlaced[pos]
		out = append(out, CellChange{Pos: pos, Type: c.GetBlock(local), PlayerPlaced: placed})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })
	return out
}

// MarkChunkSaved сбрасывает список изменений чанка после сохранения
func (w *World) MarkChunkSaved(coords vec.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok := w.chunks[coords]; ok {
		c.ClearChanges()
	}
}

// ApplyCellChange восстанавливает сохранённое изменение клетки
func (w *World) ApplyCellChange(change CellChange) {
	p := change.Pos
	if change.PlayerPlaced || change.Type.IsAir() {
		w.SetPlayerBlock(p.X, p.Y, p.Z, change.Type)
		return
	}

	// Клетку трогал игрок, но затем её перезаписал генератор
	w.SetBlock(p.X, p.Y, p.Z, change.Type)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.chunkLocked(p.ToChunkCoords()).markChanged(p.LocalInChunk())
}

// PlaceSmallItem добавляет мелкий предмет в мир
func (w *World) PlaceSmallItem(item SmallItem) {
	w.mu.Lock()
	w.smallItems = append(w.smallItems, item)
	w.mu.Unlock()

	w.emit(SmallItemEvent{EventType: EventTypeSmallItemPlace, Item: item})
}

// SmallItems возвращает копию списка мелких предметов в порядке размещения
func (w *World) SmallItems() []SmallItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]SmallItem, len(w.smallItems))
	copy(out, w.smallItems)
	return out
}

// RemoveSmallItem удаляет мелкий предмет по индексу; последующие элементы сдвигаются
func (w *World) RemoveSmallItem(index int) (SmallItem, error) {
	w.mu.Lock()
	if index < 0 || index >= len(w.smallItems) {
		n := len(w.smallItems)
		w.mu.Unlock()
		return SmallItem{}, fmt.Errorf("remove small item %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	item := w.smallItems[index]
	w.smallItems = append(w.smallItems[:index], w.smallItems[index+1:]...)
	w.mu.Unlock()

	w.emit(SmallItemEvent{EventType: EventTypeSmallItemRemove, Item: item})
	return item, nil
}

// PlaceProp добавляет предмет мебели в мир
func (w *World) PlaceProp(p PropPlacement) {
	w.mu.Lock()
	w.props = append(w.props, p)
	w.mu.Unlock()

	w.emit(PropEvent{EventType: EventTypePropPlace, Prop: p})
}

// PropPositions возвращает копию списка размещённой мебели
func (w *World) PropPositions() []PropPlacement {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]PropPlacement, len(w.props))
	copy(out, w.props)
	return out
}

// RemoveProp удаляет мебель по индексу; последующие элементы сдвигаются
func (w *World) RemoveProp(index int) (PropPlacement, error) {
	w.mu.Lock()
	if index < 0 || index >= len(w.props) {
		n := len(w.props)
		w.mu.Unlock()
		return PropPlacement{}, fmt.Errorf("remove prop %d of %d: %w", index, n, ErrIndexOutOfRange)
	}
	p := w.props[index]
	w.props = append(w.props[:index], w.props[index+1:]...)
	w.mu.Unlock()

	w.emit(PropEvent{EventType: EventTypePropRemove, Prop: p})
	return p, nil
}
