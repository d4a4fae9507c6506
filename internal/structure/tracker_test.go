package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// fill ставит прямоугольный блок [x0,x0+sx)×[y0,y0+sy)×[z0,z0+sz)
func fill(set func(x, y, z int, t block.BlockType), x0, y0, z0, sx, sy, sz int, t block.BlockType) {
	for x := x0; x < x0+sx; x++ {
		for y := y0; y < y0+sy; y++ {
			for z := z0; z < z0+sz; z++ {
				set(x, y, z, t)
			}
		}
	}
}

func TestScan_SmallStructure(t *testing.T) {
	w := world.NewWorld(12345)
	fill(w.SetPlayerBlock, 0, 1, 0, 3, 2, 3, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)

	require.Len(t, tr.Structures(), 1)
	assert.Equal(t, 18, tr.Structures()[0].Complexity)
	assert.Empty(t, tr.LargeStructures(), "18 блоков меньше крупного порога")
}

func TestScan_LargeStructureAtThreshold(t *testing.T) {
	w := world.NewWorld(12345)
	fill(w.SetPlayerBlock, 0, 1, 0, 5, 2, 5, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)

	require.Len(t, tr.Structures(), 1)
	require.Len(t, tr.LargeStructures(), 1, "ровно 50 блоков — крупная структура")
	s := tr.LargeStructures()[0]
	assert.Equal(t, 50, s.Complexity)
	assert.Equal(t, vec.Vec3{X: 0, Y: 1, Z: 0}, s.Min)
	assert.Equal(t, vec.Vec3{X: 4, Y: 2, Z: 4}, s.Max)
	assert.InDelta(t, 2.5, s.Centroid.X(), 1e-9)
	assert.InDelta(t, 2.0, s.Centroid.Y(), 1e-9)
}

func TestScan_BelowThresholdDiscarded(t *testing.T) {
	w := world.NewWorld(1)
	fill(w.SetPlayerBlock, 0, 1, 0, 3, 3, 1, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	assert.Empty(t, tr.Structures(), "9 блоков не отслеживаются")
}

func TestScan_MixedMaterialsConnected(t *testing.T) {
	w := world.NewWorld(1)
	fill(w.SetPlayerBlock, 0, 1, 0, 3, 2, 1, block.Brick)
	fill(w.SetPlayerBlock, 0, 1, 1, 3, 2, 1, block.WoodPlanks)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	require.Len(t, tr.Structures(), 1)
	assert.Equal(t, 12, tr.Structures()[0].Complexity)
}

func TestScan_DiagonalNotConnected(t *testing.T) {
	w := world.NewWorld(1)
	fill(w.SetPlayerBlock, 0, 1, 0, 2, 5, 1, block.Brick)
	fill(w.SetPlayerBlock, 2, 6, 1, 2, 5, 1, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	require.Len(t, tr.Structures(), 2, "касание ребром не соединяет структуры")
	assert.True(t, tr.Structures()[0].Blocks[0].Less(tr.Structures()[1].Blocks[0]), "порядок по наименьшему блоку")
}

func TestScan_IgnoresWorldGenerated(t *testing.T) {
	w := world.NewWorld(1)

	// Сгенерированная стена сама по себе не структура
	fill(w.SetBlock, 0, 1, 0, 5, 2, 5, block.Brick)
	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	assert.Empty(t, tr.Structures())

	// Блоки игрока рядом со сгенерированными не поглощают их
	fill(w.SetPlayerBlock, 5, 1, 0, 3, 2, 3, block.Brick)
	tr.ScanForStructures(w)
	require.Len(t, tr.Structures(), 1)
	assert.Equal(t, 18, tr.Structures()[0].Complexity)
	for _, b := range tr.Structures()[0].Blocks {
		assert.True(t, w.IsPlayerPlaced(b.X, b.Y, b.Z))
	}
}

func TestScan_RescanReplaces(t *testing.T) {
	w := world.NewWorld(1)
	fill(w.SetPlayerBlock, 0, 1, 0, 3, 2, 3, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	require.Len(t, tr.Structures(), 1)

	fill(w.SetPlayerBlock, 0, 1, 0, 3, 2, 3, block.Air)
	tr.ScanForStructures(w)
	assert.Empty(t, tr.Structures(), "повторное сканирование заменяет прежний результат")
}

func TestCalculateBuilderCount_Monotonic(t *testing.T) {
	tr := NewStructureTracker(WithThresholds(10, 50), WithMaxBuilders(8))

	prev := 0
	for c := 10; c <= 1000; c += 7 {
		n := tr.CalculateBuilderCount(&Structure{Complexity: c})
		assert.GreaterOrEqual(t, n, prev, "больше структура — не меньше строителей")
		assert.LessOrEqual(t, n, 8)
		prev = n
	}
	assert.Equal(t, 1, tr.CalculateBuilderCount(&Structure{Complexity: 18}))
	assert.Equal(t, 2, tr.CalculateBuilderCount(&Structure{Complexity: 50}))
	assert.Equal(t, 0, tr.CalculateBuilderCount(nil))
}

func TestSpawnPoint(t *testing.T) {
	w := world.NewWorld(1)
	fill(w.SetPlayerBlock, 4, 1, 4, 3, 2, 3, block.Brick)

	tr := NewStructureTracker(WithThresholds(10, 50))
	tr.ScanForStructures(w)
	require.Len(t, tr.Structures(), 1)

	p := tr.SpawnPoint(tr.Structures()[0])
	assert.Equal(t, vec.Vec3{X: 3, Y: 1, Z: 3}, p)
	assert.Equal(t, block.Air, w.GetBlock(p.X, p.Y, p.Z))
}
