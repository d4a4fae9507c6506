package building

import (
	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/world"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Материалы, которые ставятся как блоки.
// Доски дают отдельный тип блока: иначе разрушение вернуло бы древесину и позволило бы дюп.
var blockMaterials = map[inventory.Material]block.BlockType{
	inventory.Wood:         block.Wood,
	inventory.Planks:       block.WoodPlanks,
	inventory.Brick:        block.Brick,
	inventory.Stone:        block.Stone,
	inventory.Glass:        block.Glass,
	inventory.Window:       block.Glass,
	inventory.GrassTurf:    block.Grass,
	inventory.Dirt:         block.Dirt,
	inventory.PavementSlab: block.Pavement,
	inventory.Concrete:     block.Concrete,
	inventory.Cardboard:    block.Cardboard,
	inventory.BrickWall:    block.Brick,
	inventory.ShelterWall:  block.Cardboard,
	inventory.Ladder:       block.Ladder,
	inventory.Door:         block.DoorLower,
}

var propMaterials = map[inventory.Material]world.PropType{
	inventory.Mattress:    world.PropBed,
	inventory.Workbench:   world.PropWorkbench,
	inventory.Campfire:    world.PropCampfire,
	inventory.GardenGnome: world.PropGardenGnome,
}

// MaterialToBlockType возвращает тип блока для материала.
// Для двери возвращается нижняя половина.
func MaterialToBlockType(m inventory.Material) (block.BlockType, bool) {
	t, ok := blockMaterials[m]
	return t, ok
}

// MaterialToPropType возвращает тип мебели для материала или PropNone
func MaterialToPropType(m inventory.Material) world.PropType {
	if p, ok := propMaterials[m]; ok {
		return p
	}
	return world.PropNone
}

// PropToMaterial возвращает материал, из которого ставится мебель
func PropToMaterial(t world.PropType) (inventory.Material, bool) {
	for m, pt := range propMaterials {
		if pt == t {
			return m, true
		}
	}
	return inventory.None, false
}
