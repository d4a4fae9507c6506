package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// findPlot ищет участок заданного типа и возвращает мировые координаты его угла
func findPlot(t *testing.T, g *WorldGenerator, kind PlotKind) (int, int) {
	t.Helper()
	for px := -20; px <= 20; px++ {
		for pz := -20; pz <= 20; pz++ {
			if g.PlotKindAt(px*PlotSize, pz*PlotSize) == kind {
				return px * PlotSize, pz * PlotSize
			}
		}
	}
	t.Fatalf("участок типа %d не найден", kind)
	return 0, 0
}

func TestGenerator_SpawnPlotsAreOpen(t *testing.T) {
	g := NewWorldGenerator(12345)
	for px := -1; px <= 1; px++ {
		for pz := -1; pz <= 1; pz++ {
			assert.Equal(t, PlotGreen, g.PlotKindAt(px*PlotSize+10, pz*PlotSize+10))
		}
	}
}

func TestGenerator_Building(t *testing.T) {
	g := NewWorldGenerator(12345)
	ox, oz := findPlot(t, g, PlotBuilding)

	bMin := RoadWidth + buildingInset
	bMax := PlotSize - buildingInset
	door := (bMin + bMax) / 2

	assert.Equal(t, block.Concrete, g.BlockAt(ox+bMin+3, 0, oz+bMin+3), "пол здания")
	assert.Equal(t, block.Pavement, g.BlockAt(ox+bMin-1, 0, oz+bMin+3), "тротуар вокруг здания")
	assert.Equal(t, block.Brick, g.BlockAt(ox+bMin, 1, oz+bMin), "угол стены")
	assert.Equal(t, block.Air, g.BlockAt(ox+door, 1, oz+bMin), "дверной проём")
	assert.Equal(t, block.Air, g.BlockAt(ox+door, 2, oz+bMin), "дверной проём")
	assert.Equal(t, block.Wood, g.BlockAt(ox+door, 3, oz+bMin), "притолока")
	assert.Equal(t, block.Glass, g.BlockAt(ox+bMin, 2, oz+bMin+2), "окно в боковой стене")
	assert.Equal(t, block.Air, g.BlockAt(ox+bMin+3, 1, oz+bMin+3), "внутри здания пусто")

	// Крыша лежит над стенами на высоте, кратной этажу
	roof := -1
	for y := 1; y < featureTop; y++ {
		if g.BlockAt(ox+bMin+3, y, oz+bMin+3) == block.Concrete {
			roof = y
			break
		}
	}
	require.NotEqual(t, -1, roof, "у здания должна быть крыша")
	assert.Equal(t, 1, roof%floorHeight)
	assert.LessOrEqual(t, roof, maxFloors*floorHeight+1)
	assert.Equal(t, block.Air, g.BlockAt(ox+bMin+3, roof+1, oz+bMin+3))
}

func TestGenerator_ParkTrees(t *testing.T) {
	g := NewWorldGenerator(12345)

	found := false
	for px := -20; px <= 20 && !found; px++ {
		for pz := -20; pz <= 20 && !found; pz++ {
			ox, oz := px*PlotSize, pz*PlotSize
			if g.PlotKindAt(ox, oz) != PlotPark {
				continue
			}
			for tx := RoadWidth + buildingInset; tx < PlotSize-leafRadius && !found; tx += treeSpacing {
				for tz := RoadWidth + buildingInset; tz < PlotSize-leafRadius && !found; tz += treeSpacing {
					if g.BlockAt(ox+tx, 1, oz+tz) != block.TreeTrunk {
						continue
					}
					found = true

					h := 1
					for g.BlockAt(ox+tx, h+1, oz+tz) == block.TreeTrunk {
						h++
					}
					assert.GreaterOrEqual(t, h, 4)
					assert.LessOrEqual(t, h, 5)
					assert.Equal(t, block.Leaves, g.BlockAt(ox+tx, h+1, oz+tz), "крона над стволом")
					assert.Equal(t, block.Leaves, g.BlockAt(ox+tx+1, h, oz+tz))
					assert.Equal(t, block.Air, g.BlockAt(ox+tx+2, h, oz+tz+2), "угол кроны пуст")
					assert.Equal(t, block.Grass, g.BlockAt(ox+tx, 0, oz+tz))
				}
			}
		}
	}
	assert.True(t, found, "в парках должно быть хотя бы одно дерево")
}

func TestGenerator_RoadsSeparatePlots(t *testing.T) {
	g := NewWorldGenerator(99)
	for _, x := range []int{-PlotSize, 0, PlotSize, 5 * PlotSize} {
		assert.Equal(t, block.Pavement, g.BlockAt(x, 0, x+10))
		assert.Equal(t, block.Road, g.BlockAt(x+1, 0, x+10))
		assert.Equal(t, block.Road, g.BlockAt(x+2, 0, x+10))
		assert.Equal(t, block.Pavement, g.BlockAt(x+3, 0, x+10))
		assert.Equal(t, block.Air, g.BlockAt(x+1, 1, x+10), "над дорогой ничего не строится")
	}
}

func TestGenerator_ChunkMatchesBlockAt(t *testing.T) {
	g := NewWorldGenerator(4242)
	ox, oz := findPlot(t, g, PlotBuilding)
	coords := vec.New(ox, 0, oz).ToChunkCoords()
	chunk := g.GenerateChunk(coords)

	for i := 0; i < ChunkVolume; i += 13 {
		local := localFromIndex(i)
		p := chunk.WorldPos(local)
		assert.Equal(t, g.BlockAt(p.X, p.Y, p.Z), chunk.GetBlock(local), "клетка %v", p)
	}
	assert.False(t, chunk.HasChanges(), "генерация не создаёт изменений игрока")
}

func TestGenerator_EmptyChunks(t *testing.T) {
	g := NewWorldGenerator(1)
	assert.Equal(t, 0, countNonAir(g.GenerateChunk(vec.New(0, 5, 0))), "небо пустое")
	assert.Equal(t, ChunkVolume, countNonAir(g.GenerateChunk(vec.New(0, -1, 0))), "подземелье сплошное")
}

func TestFloorDivMod(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, PlotSize))
	assert.Equal(t, PlotSize-1, floorMod(-1, PlotSize))
	assert.Equal(t, 0, floorDiv(PlotSize-1, PlotSize))
	assert.Equal(t, -2, floorDiv(-PlotSize-1, PlotSize))
}
