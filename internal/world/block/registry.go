package block

// BlockType представляет тип воксельного материала.
// Это только метка: прочность и дроп хранятся во внешних таблицах (mining, drops).
type BlockType uint16

// Константы типов блоков
const (
	// Пустая клетка, нулевое значение типа
	Air BlockType = iota // 0
	Grass                // 1
	Dirt                 // 2
	Stone                // 3
	Bedrock              // 4
	Water                // 5

	// Городские покрытия (начиная с 20)
	Pavement BlockType = 20 // Тротуар
	Road     BlockType = 21 // Асфальт
	Concrete BlockType = 22 // Бетон

	// Строительные блоки (начиная с 40)
	Brick      BlockType = 40
	Glass      BlockType = 41
	Wood       BlockType = 42 // Дерево, сгенерированное миром (рамы, заборы)
	WoodPlanks BlockType = 43 // Доски, поставленные игроком; отдельный тип против цикла дюпа
	Cardboard  BlockType = 44
	Ladder     BlockType = 45
	DoorLower  BlockType = 46
	DoorUpper  BlockType = 47

	// Растительность (начиная с 60)
	TreeTrunk BlockType = 60
	Leaves    BlockType = 61
)

var names = map[BlockType]string{
	Air:        "AIR",
	Grass:      "GRASS",
	Dirt:       "DIRT",
	Stone:      "STONE",
	Bedrock:    "BEDROCK",
	Water:      "WATER",
	Pavement:   "PAVEMENT",
	Road:       "ROAD",
	Concrete:   "CONCRETE",
	Brick:      "BRICK",
	Glass:      "GLASS",
	Wood:       "WOOD",
	WoodPlanks: "WOOD_PLANKS",
	Cardboard:  "CARDBOARD",
	Ladder:     "LADDER",
	DoorLower:  "DOOR_LOWER",
	DoorUpper:  "DOOR_UPPER",
	TreeTrunk:  "TREE_TRUNK",
	Leaves:     "LEAVES",
}

var byName = func() map[string]BlockType {
	m := make(map[string]BlockType, len(names))
	for t, n := range names {
		m[n] = t
	}
	return m
}()

// String возвращает имя типа блока
func (t BlockType) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsAir сообщает, является ли клетка пустой
func (t BlockType) IsAir() bool {
	return t == Air
}

// IsSolid сообщает, занимает ли блок клетку для столкновений и установки
func (t BlockType) IsSolid() bool {
	return t != Air && t != Water
}

// IsDoor сообщает, является ли блок половиной двери
func (t BlockType) IsDoor() bool {
	return t == DoorLower || t == DoorUpper
}

// FromName возвращает тип блока по его имени
func FromName(name string) (BlockType, bool) {
	t, ok := byName[name]
	return t, ok
}

// All возвращает все зарегистрированные типы блоков
func All() []BlockType {
	out := make([]BlockType, 0, len(names))
	for t := range names {
		out = append(out, t)
	}
	return out
}
