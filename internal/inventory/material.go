package inventory

// Material представляет тип предмета, который может лежать в инвентаре.
// Свойства материала хранятся в таблице materials, а не в самом значении.
type Material uint16

// Константы материалов
const (
	None Material = iota // Пустой слот

	// Строительные материалы
	Wood
	Planks
	Brick
	Stone
	Glass
	GrassTurf
	Dirt
	PavementSlab
	Concrete
	Cardboard

	// Конструкции
	Door
	Ladder
	Window
	BrickWall
	ShelterWall

	// Мелкие предметы
	Shilling
	Diamond
	TinOfBeans
	Pint
	SausageRoll

	// Мебель
	Mattress
	Workbench
	Campfire
	GardenGnome
)

// MaterialInfo описывает свойства материала
type MaterialInfo struct {
	Name      string
	SmallItem bool // Может быть положен на поверхность как мелкий предмет
}

var materials = map[Material]MaterialInfo{
	Wood:         {Name: "WOOD"},
	Planks:       {Name: "PLANKS"},
	Brick:        {Name: "BRICK"},
	Stone:        {Name: "STONE"},
	Glass:        {Name: "GLASS"},
	GrassTurf:    {Name: "GRASS_TURF"},
	Dirt:         {Name: "DIRT"},
	PavementSlab: {Name: "PAVEMENT_SLAB"},
	Concrete:     {Name: "CONCRETE"},
	Cardboard:    {Name: "CARDBOARD"},
	Door:         {Name: "DOOR"},
	Ladder:       {Name: "LADDER"},
	Window:       {Name: "WINDOW"},
	BrickWall:    {Name: "BRICK_WALL"},
	ShelterWall:  {Name: "SHELTER_WALL"},
	Shilling:     {Name: "SHILLING", SmallItem: true},
	Diamond:      {Name: "DIAMOND", SmallItem: true},
	TinOfBeans:   {Name: "TIN_OF_BEANS", SmallItem: true},
	Pint:         {Name: "PINT", SmallItem: true},
	SausageRoll:  {Name: "SAUSAGE_ROLL", SmallItem: true},
	Mattress:     {Name: "MATTRESS"},
	Workbench:    {Name: "WORKBENCH"},
	Campfire:     {Name: "CAMPFIRE"},
	GardenGnome:  {Name: "GARDEN_GNOME"},
}

// Info возвращает свойства материала
func Info(m Material) (MaterialInfo, bool) {
	info, ok := materials[m]
	return info, ok
}

func (m Material) String() string {
	if info, ok := materials[m]; ok {
		return info.Name
	}
	if m == None {
		return "NONE"
	}
	return "UNKNOWN"
}

// IsSmallItem сообщает, можно ли положить материал как мелкий предмет
func (m Material) IsSmallItem() bool {
	return materials[m].SmallItem
}

// MaterialFromName возвращает материал по имени (используется конфигом стартового набора)
func MaterialFromName(name string) (Material, bool) {
	for m, info := range materials {
		if info.Name == name {
			return m, true
		}
	}
	return None, false
}
