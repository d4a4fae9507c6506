package drops

import (
	"math/rand"

	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Landmark задаёт здание или место, внутри которого разрушен блок
type Landmark int

const (
	LandmarkNone Landmark = iota
	LandmarkJeweller
	LandmarkGreggs
	LandmarkOffLicence
	LandmarkCharityShop
	LandmarkPark
)

var landmarkNames = map[Landmark]string{
	LandmarkNone:        "NONE",
	LandmarkJeweller:    "JEWELLER",
	LandmarkGreggs:      "GREGGS",
	LandmarkOffLicence:  "OFF_LICENCE",
	LandmarkCharityShop: "CHARITY_SHOP",
	LandmarkPark:        "PARK",
}

func (l Landmark) String() string {
	if n, ok := landmarkNames[l]; ok {
		return n
	}
	return "UNKNOWN"
}

// ShillingChance задаёт вероятность найти шиллинг под плиткой тротуара
const ShillingChance = 1.0 / 20

// BlockDropTable определяет, какой материал выпадает из разрушенного блока
type BlockDropTable struct {
	base map[block.BlockType]inventory.Material
}

// NewBlockDropTable создаёт таблицу дропа по умолчанию.
// Доски возвращают доски, а не древесину, иначе крафт досок превращается в бесконечный цикл.
func NewBlockDropTable() *BlockDropTable {
	return &BlockDropTable{
		base: map[block.BlockType]inventory.Material{
			block.Grass:      inventory.GrassTurf,
			block.Dirt:       inventory.Dirt,
			block.Stone:      inventory.Stone,
			block.Pavement:   inventory.PavementSlab,
			block.Concrete:   inventory.Concrete,
			block.Brick:      inventory.Brick,
			block.Glass:      inventory.Glass,
			block.Wood:       inventory.Wood,
			block.TreeTrunk:  inventory.Wood,
			block.WoodPlanks: inventory.Planks,
			block.Cardboard:  inventory.Cardboard,
			block.Ladder:     inventory.Ladder,
			block.DoorLower:  inventory.Door,
			block.DoorUpper:  inventory.Door,
		},
	}
}

// GetDrop возвращает материал, выпадающий из блока.
// Случайность берётся только из переданного генератора; nil означает детерминированный дроп.
// Возвращает false для блоков без дропа (листва, вода, асфальт, бедрок, воздух).
func (d *BlockDropTable) GetDrop(t block.BlockType, landmark Landmark, rng *rand.Rand) (inventory.Material, bool) {
	m, ok := d.base[t]
	if !ok {
		return inventory.None, false
	}

	switch t {
	case block.Glass:
		if landmark == LandmarkJeweller {
			return inventory.Diamond, true
		}
	case block.Pavement:
		if rng != nil && rng.Float64() < ShillingChance {
			return inventory.Shilling, true
		}
	}
	return m, true
}
