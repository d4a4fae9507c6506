package drops

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

func TestGetDrop_PlanksAreNotWood(t *testing.T) {
	d := NewBlockDropTable()

	m, ok := d.GetDrop(block.WoodPlanks, LandmarkNone, nil)
	assert.True(t, ok)
	assert.Equal(t, inventory.Planks, m, "доски должны возвращать доски")

	m, ok = d.GetDrop(block.Wood, LandmarkNone, nil)
	assert.True(t, ok)
	assert.Equal(t, inventory.Wood, m)

	m, ok = d.GetDrop(block.TreeTrunk, LandmarkNone, nil)
	assert.True(t, ok)
	assert.Equal(t, inventory.Wood, m)
}

func TestGetDrop_NoDrop(t *testing.T) {
	d := NewBlockDropTable()
	for _, bt := range []block.BlockType{block.Air, block.Leaves, block.Water, block.Road, block.Bedrock} {
		m, ok := d.GetDrop(bt, LandmarkNone, rand.New(rand.NewSource(1)))
		assert.False(t, ok, "%s не должен ничего ронять", bt)
		assert.Equal(t, inventory.None, m)
	}
}

func TestGetDrop_Doors(t *testing.T) {
	d := NewBlockDropTable()
	lower, _ := d.GetDrop(block.DoorLower, LandmarkNone, nil)
	upper, _ := d.GetDrop(block.DoorUpper, LandmarkNone, nil)
	assert.Equal(t, inventory.Door, lower)
	assert.Equal(t, inventory.Door, upper)
}

func TestGetDrop_JewellerGlass(t *testing.T) {
	d := NewBlockDropTable()

	m, _ := d.GetDrop(block.Glass, LandmarkNone, nil)
	assert.Equal(t, inventory.Glass, m)

	m, _ = d.GetDrop(block.Glass, LandmarkJeweller, nil)
	assert.Equal(t, inventory.Diamond, m, "витрина ювелира даёт алмаз")
}

func TestGetDrop_PavementShilling(t *testing.T) {
	d := NewBlockDropTable()
	rng := rand.New(rand.NewSource(42))

	shillings, slabs := 0, 0
	for i := 0; i < 2000; i++ {
		m, ok := d.GetDrop(block.Pavement, LandmarkNone, rng)
		assert.True(t, ok)
		switch m {
		case inventory.Shilling:
			shillings++
		case inventory.PavementSlab:
			slabs++
		default:
			t.Fatalf("неожиданный дроп %s", m)
		}
	}
	assert.Greater(t, shillings, 50, "шиллинги должны выпадать примерно в одном случае из двадцати")
	assert.Less(t, shillings, 160)
	assert.Equal(t, 2000, shillings+slabs)

	// Без генератора дроп детерминирован
	m, _ := d.GetDrop(block.Pavement, LandmarkNone, nil)
	assert.Equal(t, inventory.PavementSlab, m)
}

func TestGetDrop_SameSeedSameSequence(t *testing.T) {
	d := NewBlockDropTable()
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		ma, _ := d.GetDrop(block.Pavement, LandmarkNone, a)
		mb, _ := d.GetDrop(block.Pavement, LandmarkNone, b)
		assert.Equal(t, ma, mb)
	}
}

func TestLandmark_String(t *testing.T) {
	assert.Equal(t, "JEWELLER", LandmarkJeweller.String())
	assert.Equal(t, "UNKNOWN", Landmark(99).String())
}
