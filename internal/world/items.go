package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/vec"
)

// SmallItem описывает мелкий предмет, лежащий на поверхности блока.
// Позиция не привязана к сетке.
type SmallItem struct {
	ID       uuid.UUID
	Material inventory.Material
	Position mgl64.Vec3
}

// NewSmallItem создаёт мелкий предмет с новым идентификатором
func NewSmallItem(m inventory.Material, pos mgl64.Vec3) SmallItem {
	return SmallItem{ID: uuid.New(), Material: m, Position: pos}
}

// PropType представляет тип мебели
type PropType int

const (
	PropNone PropType = iota
	PropBed
	PropWorkbench
	PropCampfire
	PropGardenGnome
)

var propNames = map[PropType]string{
	PropNone:        "NONE",
	PropBed:         "BED",
	PropWorkbench:   "WORKBENCH",
	PropCampfire:    "CAMPFIRE",
	PropGardenGnome: "GARDEN_GNOME",
}

func (p PropType) String() string {
	if n, ok := propNames[p]; ok {
		return n
	}
	return "UNKNOWN"
}

// PropPlacement описывает мебель на верхней грани блока
type PropPlacement struct {
	ID       uuid.UUID
	Type     PropType
	Position mgl64.Vec3 // Точка опоры; Y совпадает с верхней гранью опорного блока
	Support  vec.Vec3   // Блок, на котором стоит мебель
}

// NewPropPlacement создаёт запись о мебели с новым идентификатором
func NewPropPlacement(t PropType, pos mgl64.Vec3, support vec.Vec3) PropPlacement {
	return PropPlacement{ID: uuid.New(), Type: t, Position: pos, Support: support}
}
