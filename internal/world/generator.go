package world

import (
	"github.com/ragamuffin/voxelcore/internal/util"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Вертикальные границы мира
const (
	MinHeight = -16 // Уровень бедрока
	MaxHeight = 128 // Первая недоступная высота

	GroundLevel = 0  // Поверхность земли
	DirtDepth   = 3  // Толщина слоя земли под поверхностью
	floorHeight = 4  // Высота этажа здания
	maxFloors   = 4  // Максимальная этажность
	featureTop  = 32 // Выше этой высоты генератор ничего не ставит
)

// Планировка города: сетка участков, разделённых дорогами
const (
	PlotSize  = 24 // Размер участка вместе с дорогой
	RoadWidth = 4  // Ширина дороги с тротуарами

	buildingInset = 2 // Отступ здания от края участка
	treeSpacing   = 5 // Шаг сетки посадки деревьев в парке
	leafRadius    = 2 // Радиус кроны
)

// PlotKind представляет тип застройки участка
type PlotKind int

const (
	PlotGreen    PlotKind = iota // Газон
	PlotPark                     // Парк с деревьями
	PlotBuilding                 // Кирпичное здание
)

// Пороги шума для выбора застройки
const (
	buildingNoiseMin = 0.45 // Порог застройки
	parkChance       = 0.6  // Доля парков среди незастроенных участков
	treeChance       = 0.5  // Вероятность посадки дерева в узле сетки
	plotNoiseScale   = 0.35 // Масштаб шума участков
)

// plotLayout описывает планировку одного участка
type plotLayout struct {
	kind   PlotKind
	floors int
	// Границы здания в локальных координатах участка, [min, max)
	bMin, bMax int
	doorX      int
	trees      []tree
}

type tree struct {
	x, z   int // Локальные координаты ствола
	height int
}

// WorldGenerator генерирует городской ландшафт.
// Содержимое чанка зависит только от сида и координат чанка,
// поэтому порядок обращения к чанкам не влияет на результат.
type WorldGenerator struct {
	Seed  int64
	noise *util.Noise
}

// NewWorldGenerator создаёт новый генератор мира
func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{
		Seed:  seed,
		noise: util.NewNoise(seed),
	}
}

// GenerateChunk генерирует чанк по его координатам в локальный буфер
func (wg *WorldGenerator) GenerateChunk(coords vec.Vec3) *Chunk {
	chunk := NewChunk(coords)
	origin := coords.ChunkOrigin()

	// Чанк целиком выше застройки или ниже бедрока остаётся пустым
	if origin.Y >= featureTop || origin.Y+vec.ChunkSize <= MinHeight {
		return chunk
	}

	plots := make(map[[2]int]*plotLayout)

	for lx := 0; lx < vec.ChunkSize; lx++ {
		for lz := 0; lz < vec.ChunkSize; lz++ {
			x := origin.X + lx
			z := origin.Z + lz

			px, pz := floorDiv(x, PlotSize), floorDiv(z, PlotSize)
			key := [2]int{px, pz}
			layout, ok := plots[key]
			if !ok {
				layout = wg.layoutPlot(px, pz)
				plots[key] = layout
			}

			for ly := 0; ly < vec.ChunkSize; ly++ {
				y := origin.Y + ly
				t := wg.blockAt(layout, x, y, z)
				if t != block.Air {
					chunk.SetBlock(vec.Vec3{X: lx, Y: ly, Z: lz}, t)
				}
			}
		}
	}

	return chunk
}

// BlockAt возвращает сгенерированный тип блока в мировых координатах без учёта изменений игрока
func (wg *WorldGenerator) BlockAt(x, y, z int) block.BlockType {
	layout := wg.layoutPlot(floorDiv(x, PlotSize), floorDiv(z, PlotSize))
	return wg.blockAt(layout, x, y, z)
}

// PlotKindAt возвращает тип застройки участка, содержащего колонку (x, z)
func (wg *WorldGenerator) PlotKindAt(x, z int) PlotKind {
	return wg.layoutPlot(floorDiv(x, PlotSize), floorDiv(z, PlotSize)).kind
}

func (wg *WorldGenerator) blockAt(layout *plotLayout, x, y, z int) block.BlockType {
	switch {
	case y < MinHeight || y >= MaxHeight:
		return block.Air
	case y == MinHeight:
		return block.Bedrock
	case y < GroundLevel-DirtDepth:
		return block.Stone
	case y < GroundLevel:
		return block.Dirt
	}

	lx, lz := floorMod(x, PlotSize), floorMod(z, PlotSize)

	if lx < RoadWidth || lz < RoadWidth {
		if y != GroundLevel {
			return block.Air
		}
		// Две средние полосы занимает проезжая часть, крайние отданы тротуару
		if lx == 1 || lx == 2 || lz == 1 || lz == 2 {
			return block.Road
		}
		return block.Pavement
	}

	if y == GroundLevel {
		return layout.surface(lx, lz)
	}

	switch layout.kind {
	case PlotBuilding:
		return layout.buildingBlock(lx, y, lz)
	case PlotPark:
		return layout.treeBlock(lx, y, lz)
	}
	return block.Air
}

// layoutPlot вычисляет планировку участка по его координатам
func (wg *WorldGenerator) layoutPlot(px, pz int) *plotLayout {
	layout := &plotLayout{kind: PlotGreen}

	// Участки вокруг точки появления остаются открытым газоном
	if abs(px) <= 1 && abs(pz) <= 1 {
		return layout
	}

	rng := util.NewRand(wg.Seed, px, pz)
	n := wg.noise.Noise2D(float64(px)*plotNoiseScale, float64(pz)*plotNoiseScale)

	switch {
	case n >= buildingNoiseMin:
		layout.kind = PlotBuilding
		layout.floors = 1 + rng.Intn(maxFloors)
		layout.bMin = RoadWidth + buildingInset
		layout.bMax = PlotSize - buildingInset
		layout.doorX = (layout.bMin + layout.bMax) / 2
	case rng.Float64() < parkChance:
		layout.kind = PlotPark
		for tx := RoadWidth + buildingInset; tx < PlotSize-leafRadius; tx += treeSpacing {
			for tz := RoadWidth + buildingInset; tz < PlotSize-leafRadius; tz += treeSpacing {
				tr := util.NewRand(wg.Seed, px, pz, tx, tz)
				if tr.Float64() < treeChance {
					layout.trees = append(layout.trees, tree{x: tx, z: tz, height: 4 + tr.Intn(2)})
				}
			}
		}
	}

	return layout
}

// surface возвращает блок поверхности внутри участка
func (p *plotLayout) surface(lx, lz int) block.BlockType {
	if p.kind != PlotBuilding {
		return block.Grass
	}
	if lx >= p.bMin && lx < p.bMax && lz >= p.bMin && lz < p.bMax {
		return block.Concrete
	}
	// Тротуар шириной в один блок вокруг здания
	if lx >= p.bMin-1 && lx <= p.bMax && lz >= p.bMin-1 && lz <= p.bMax {
		return block.Pavement
	}
	return block.Grass
}

// buildingBlock возвращает блок здания выше уровня земли
func (p *plotLayout) buildingBlock(lx, y, lz int) block.BlockType {
	if lx < p.bMin || lx >= p.bMax || lz < p.bMin || lz >= p.bMax {
		return block.Air
	}

	wallTop := p.floors * floorHeight
	if y == wallTop+1 {
		return block.Concrete // Крыша
	}
	if y > wallTop {
		return block.Air
	}

	onX := lx == p.bMin || lx == p.bMax-1
	onZ := lz == p.bMin || lz == p.bMax-1
	if !onX && !onZ {
		return block.Air
	}

	// Дверной проём в фасаде с деревянной притолокой
	if lz == p.bMin && lx == p.doorX {
		if y <= 2 {
			return block.Air
		}
		if y == 3 {
			return block.Wood
		}
	}

	// Окна: средний ряд каждого этажа, через клетку, не на углах
	level := (y - 1) % floorHeight
	along := lx
	if onX {
		along = lz
	}
	if !(onX && onZ) && level == 1 && along%2 == 0 {
		return block.Glass
	}

	return block.Brick
}

// treeBlock возвращает блок дерева в парке
func (p *plotLayout) treeBlock(lx, y, lz int) block.BlockType {
	for _, t := range p.trees {
		dx, dz := lx-t.x, lz-t.z
		if dx == 0 && dz == 0 && y <= t.height {
			return block.TreeTrunk
		}
		if abs(dx) > leafRadius || abs(dz) > leafRadius {
			continue
		}
		if y < t.height-1 || y > t.height+1 {
			continue
		}
		// Крона без углов
		if abs(dx) == leafRadius && abs(dz) == leafRadius {
			continue
		}
		return block.Leaves
	}
	return block.Air
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
