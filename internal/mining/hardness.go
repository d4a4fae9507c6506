package mining

import "github.com/ragamuffin/voxelcore/internal/world/block"

// Количество ударов для разрушения блока по категориям
const (
	HitsSoft    = 5 // Трава, земля, дерево, листва
	HitsHard    = 8 // Кирпич, камень, городские покрытия
	HitsFragile = 2 // Стекло
	HitsDoor    = 3 // Половины двери
	Unbreakable = 0 // Бедрок, вода
)

// HardnessTable сопоставляет тип блока с количеством ударов.
// Отсутствующий тип считается мягким.
type HardnessTable map[block.BlockType]int

// DefaultHardness возвращает стандартную таблицу прочности
func DefaultHardness() HardnessTable {
	return HardnessTable{
		block.Grass:      HitsSoft,
		block.Dirt:       HitsSoft,
		block.Wood:       HitsSoft,
		block.WoodPlanks: HitsSoft,
		block.TreeTrunk:  HitsSoft,
		block.Leaves:     HitsSoft,
		block.Ladder:     HitsSoft,
		block.Cardboard:  HitsSoft,

		block.Brick:    HitsHard,
		block.Stone:    HitsHard,
		block.Pavement: HitsHard,
		block.Road:     HitsHard,
		block.Concrete: HitsHard,

		block.Glass: HitsFragile,

		block.DoorLower: HitsDoor,
		block.DoorUpper: HitsDoor,

		block.Bedrock: Unbreakable,
		block.Water:   Unbreakable,
	}
}

// HitsRequired возвращает количество ударов для разрушения блока.
// Воздух и неразрушаемые блоки возвращают 0.
func (h HardnessTable) HitsRequired(t block.BlockType) int {
	if t == block.Air {
		return 0
	}
	if n, ok := h[t]; ok {
		return n
	}
	return HitsSoft
}
