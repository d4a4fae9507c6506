package structure

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Пороги по умолчанию
const (
	DefaultSmallThreshold = 10
	DefaultLargeThreshold = 50
	DefaultMaxBuilders    = 8
)

// Source отдаёт блоки игрока для сканирования
type Source interface {
	PlayerPlacedBlocks() []vec.Vec3
	GetBlock(x, y, z int) block.BlockType
}

// Structure описывает связную группу блоков, поставленных игроком
type Structure struct {
	ID         uuid.UUID
	Blocks     []vec.Vec3 // Отсортированы по Vec3.Less
	Complexity int        // Количество блоков
	Min, Max   vec.Vec3   // Включительные границы
	Centroid   mgl64.Vec3
}

// IsLarge сообщает, достигает ли структура порога
func (s *Structure) IsLarge(threshold int) bool {
	return s.Complexity >= threshold
}

// StructureTracker разбивает блоки игрока на компоненты связности по шести соседям.
// Результат каждого сканирования полностью заменяет предыдущий.
// Не безопасен для конкурентного использования.
type StructureTracker struct {
	smallThreshold int
	largeThreshold int
	maxBuilders    int

	structures []*Structure

	metrics *metrics.Metrics
	log     *logging.Logger
}

// Option настраивает StructureTracker
type Option func(*StructureTracker)

// WithThresholds задаёт минимальный и крупный пороги
func WithThresholds(small, large int) Option {
	return func(t *StructureTracker) {
		if small > 0 {
			t.smallThreshold = small
		}
		if large > 0 {
			t.largeThreshold = large
		}
	}
}

// WithMaxBuilders ограничивает количество строителей на структуру
func WithMaxBuilders(n int) Option {
	return func(t *StructureTracker) {
		if n > 0 {
			t.maxBuilders = n
		}
	}
}

// WithMetrics подключает метрики Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *StructureTracker) {
		t.metrics = m
	}
}

// NewStructureTracker создаёт анализатор структур
func NewStructureTracker(opts ...Option) *StructureTracker {
	t := &StructureTracker{
		smallThreshold: DefaultSmallThreshold,
		largeThreshold: DefaultLargeThreshold,
		maxBuilders:    DefaultMaxBuilders,
		log:            logging.GetStructureLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SmallThreshold возвращает минимальный размер отслеживаемой структуры
func (t *StructureTracker) SmallThreshold() int { return t.smallThreshold }

// LargeThreshold возвращает размер крупной структуры
func (t *StructureTracker) LargeThreshold() int { return t.largeThreshold }

// ScanForStructures пересобирает список структур по текущему состоянию мира
func (t *StructureTracker) ScanForStructures(src Source) {
	positions := src.PlayerPlacedBlocks()

	candidates := make(map[vec.Vec3]struct{}, len(positions))
	for _, p := range positions {
		if src.GetBlock(p.X, p.Y, p.Z) != block.Air {
			candidates[p] = struct{}{}
		}
	}

	visited := make(map[vec.Vec3]struct{}, len(candidates))
	var found []*Structure

	// positions отсортированы, поэтому структуры идут по наименьшему блоку
	for _, start := range positions {
		if _, ok := candidates[start]; !ok {
			continue
		}
		if _, ok := visited[start]; ok {
			continue
		}

		members := flood(start, candidates, visited)
		if len(members) < t.smallThreshold {
			continue
		}
		found = append(found, newStructure(members))
	}

	t.structures = found

	large := len(t.LargeStructures())
	t.metrics.StructureScan(len(candidates), len(found), large)
	t.log.Debug("сканирование: %d блоков игрока, %d структур, из них крупных %d", len(candidates), len(found), large)
}

// flood обходит компоненту связности в ширину
func flood(start vec.Vec3, candidates, visited map[vec.Vec3]struct{}) []vec.Vec3 {
	visited[start] = struct{}{}
	queue := []vec.Vec3{start}
	var members []vec.Vec3

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)

		for _, n := range cur.Neighbors6() {
			if _, ok := candidates[n]; !ok {
				continue
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return members
}

func newStructure(members []vec.Vec3) *Structure {
	sort.Slice(members, func(i, j int) bool { return members[i].Less(members[j]) })

	s := &Structure{
		ID:         uuid.New(),
		Blocks:     members,
		Complexity: len(members),
		Min:        members[0],
		Max:        members[0],
	}

	var sum mgl64.Vec3
	for _, b := range members {
		s.Min = vec.Vec3{X: min(s.Min.X, b.X), Y: min(s.Min.Y, b.Y), Z: min(s.Min.Z, b.Z)}
		s.Max = vec.Vec3{X: max(s.Max.X, b.X), Y: max(s.Max.Y, b.Y), Z: max(s.Max.Z, b.Z)}
		sum = sum.Add(mgl64.Vec3{float64(b.X) + 0.5, float64(b.Y) + 0.5, float64(b.Z) + 0.5})
	}
	s.Centroid = sum.Mul(1 / float64(len(members)))
	return s
}

// Structures возвращает структуры последнего сканирования не меньше минимального порога
func (t *StructureTracker) Structures() []*Structure {
	out := make([]*Structure, len(t.structures))
	copy(out, t.structures)
	return out
}

// LargeStructures возвращает структуры не меньше крупного порога
func (t *StructureTracker) LargeStructures() []*Structure {
	var out []*Structure
	for _, s := range t.structures {
		if s.IsLarge(t.largeThreshold) {
			out = append(out, s)
		}
	}
	return out
}

// CalculateBuilderCount возвращает количество строителей для структуры.
// Один строитель плюс по одному на каждый полный крупный порог, не больше максимума.
func (t *StructureTracker) CalculateBuilderCount(s *Structure) int {
	if s == nil || s.Complexity <= 0 {
		return 0
	}
	return min(1+s.Complexity/t.largeThreshold, t.maxBuilders)
}

// SpawnPoint возвращает клетку появления строителей: снаружи минимального угла на уровне основания
func (t *StructureTracker) SpawnPoint(s *Structure) vec.Vec3 {
	return vec.Vec3{X: s.Min.X - 1, Y: s.Min.Y, Z: s.Min.Z - 1}
}
