package mining

import (
	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// DefaultRegenerationSeconds задаёт время простоя, после которого прогресс добычи забывается
const DefaultRegenerationSeconds = 5.0

// World описывает часть мира, которую использует добыча
type World interface {
	GetBlock(x, y, z int) block.BlockType
	SetPlayerBlock(x, y, z int, t block.BlockType)
}

// hitRecord хранит прогресс добычи одной клетки
type hitRecord struct {
	hits    int
	lastHit float64 // Время последнего удара по внутренним часам
}

// BlockBreaker реализует конечный автомат добычи блоков.
// Для каждой клетки копит удары; при достижении порога блок превращается в воздух.
// Прогресс клетки, по которой долго не били, сбрасывается в TickDecay.
// Не безопасен для конкурентного использования.
type BlockBreaker struct {
	records     map[vec.Vec3]*hitRecord
	clock       float64
	regenWindow float64
	hardness    HardnessTable

	metrics *metrics.Metrics
	log     *logging.Logger
}

// Option настраивает BlockBreaker
type Option func(*BlockBreaker)

// WithRegenerationWindow задаёт окно регенерации в секундах
func WithRegenerationWindow(seconds float64) Option {
	return func(b *BlockBreaker) {
		if seconds > 0 {
			b.regenWindow = seconds
		}
	}
}

// WithHardness подменяет таблицу прочности
func WithHardness(h HardnessTable) Option {
	return func(b *BlockBreaker) {
		b.hardness = h
	}
}

// WithMetrics подключает метрики Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *BlockBreaker) {
		b.metrics = m
	}
}

// NewBlockBreaker создаёт автомат добычи
func NewBlockBreaker(opts ...Option) *BlockBreaker {
	b := &BlockBreaker{
		records:     make(map[vec.Vec3]*hitRecord),
		regenWindow: DefaultRegenerationSeconds,
		hardness:    DefaultHardness(),
		log:         logging.GetMiningLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// HitsRequired возвращает количество ударов для типа блока
func (b *BlockBreaker) HitsRequired(t block.BlockType) int {
	return b.hardness.HitsRequired(t)
}

// PunchBlock наносит удар по клетке и возвращает true, если этот удар разрушил блок.
// Удар по воздуху или неразрушаемому блоку ничего не записывает.
func (b *BlockBreaker) PunchBlock(w World, x, y, z int) bool {
	t := w.GetBlock(x, y, z)
	required := b.hardness.HitsRequired(t)
	if required <= 0 {
		return false
	}

	pos := vec.Vec3{X: x, Y: y, Z: z}
	rec, ok := b.records[pos]
	if !ok {
		rec = &hitRecord{}
		b.records[pos] = rec
	}
	rec.hits++
	rec.lastHit = b.clock

	if rec.hits < required {
		return false
	}

	w.SetPlayerBlock(x, y, z, block.Air)
	delete(b.records, pos)

	// Дверь ломается целиком
	if other, ok := otherDoorHalf(pos, t); ok && w.GetBlock(other.X, other.Y, other.Z) == pairedHalf(t) {
		w.SetPlayerBlock(other.X, other.Y, other.Z, block.Air)
		delete(b.records, other)
	}

	b.metrics.BlockBroken(t.String())
	b.log.Debug("блок %s разрушен в %v", t, pos)
	return true
}

// HitCount возвращает накопленные удары по клетке (0, если записи нет)
func (b *BlockBreaker) HitCount(x, y, z int) int {
	if rec, ok := b.records[vec.Vec3{X: x, Y: y, Z: z}]; ok {
		return rec.hits
	}
	return 0
}

// Progress возвращает долю прогресса добычи клетки от 0 до 1 (для индикатора трещин)
func (b *BlockBreaker) Progress(w World, x, y, z int) float64 {
	required := b.hardness.HitsRequired(w.GetBlock(x, y, z))
	if required <= 0 {
		return 0
	}
	return float64(b.HitCount(x, y, z)) / float64(required)
}

// ResetHits сбрасывает весь прогресс
func (b *BlockBreaker) ResetHits() {
	b.records = make(map[vec.Vec3]*hitRecord)
}

// TickDecay продвигает внутренние часы и удаляет записи старше окна регенерации.
// Свежие записи не затрагиваются; сами блоки не восстанавливаются.
func (b *BlockBreaker) TickDecay(deltaSeconds float64) {
	if deltaSeconds > 0 {
		b.clock += deltaSeconds
	}

	purged := 0
	for pos, rec := range b.records {
		if b.clock-rec.lastHit > b.regenWindow {
			delete(b.records, pos)
			purged++
		}
	}

	if purged > 0 {
		b.metrics.HitsDecayed(purged)
		b.log.Trace("сброшено %d записей прогресса добычи", purged)
	}
}

// ActiveRecords возвращает количество клеток с незавершённой добычей
func (b *BlockBreaker) ActiveRecords() int {
	return len(b.records)
}

func otherDoorHalf(pos vec.Vec3, t block.BlockType) (vec.Vec3, bool) {
	switch t {
	case block.DoorLower:
		return pos.Up(), true
	case block.DoorUpper:
		return pos.Down(), true
	}
	return vec.Vec3{}, false
}

func pairedHalf(t block.BlockType) block.BlockType {
	if t == block.DoorLower {
		return block.DoorUpper
	}
	return block.DoorLower
}
