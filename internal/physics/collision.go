package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ragamuffin/voxelcore/internal/vec"
)

// Размеры игрока по умолчанию
const (
	PlayerHalfWidth  = 0.3
	PlayerHalfHeight = 0.9
)

// AABB представляет выровненный по осям объём столкновения
type AABB struct {
	Center      mgl64.Vec3 // Центр объёма
	HalfExtents mgl64.Vec3 // Половины размеров по осям
}

// NewAABB создаёт объём по центру и половинам размеров
func NewAABB(center, halfExtents mgl64.Vec3) *AABB {
	return &AABB{Center: center, HalfExtents: halfExtents}
}

// NewPlayerAABB создаёт объём игрока, стоящего ногами в точке feet
func NewPlayerAABB(feet mgl64.Vec3) *AABB {
	return &AABB{
		Center:      mgl64.Vec3{feet.X(), feet.Y() + PlayerHalfHeight, feet.Z()},
		HalfExtents: mgl64.Vec3{PlayerHalfWidth, PlayerHalfHeight, PlayerHalfWidth},
	}
}

// Min возвращает минимальный угол
func (b *AABB) Min() mgl64.Vec3 {
	return b.Center.Sub(b.HalfExtents)
}

// Max возвращает максимальный угол
func (b *AABB) Max() mgl64.Vec3 {
	return b.Center.Add(b.HalfExtents)
}

// Intersects проверяет пересечение двух объёмов; касание гранями пересечением не считается
func (b *AABB) Intersects(other *AABB) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := other.Min(), other.Max()
	for axis := 0; axis < 3; axis++ {
		if bMax[axis] <= oMin[axis] || bMin[axis] >= oMax[axis] {
			return false
		}
	}
	return true
}

// IntersectsBlock проверяет пересечение с единичной клеткой сетки
func (b *AABB) IntersectsBlock(cell vec.Vec3) bool {
	return b.Intersects(BlockAABB(cell))
}

// BlockAABB возвращает объём клетки сетки
func BlockAABB(cell vec.Vec3) *AABB {
	return &AABB{
		Center:      mgl64.Vec3{float64(cell.X) + 0.5, float64(cell.Y) + 0.5, float64(cell.Z) + 0.5},
		HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5},
	}
}

// CellsOverlapped возвращает все клетки сетки, которые пересекает объём
func (b *AABB) CellsOverlapped() []vec.Vec3 {
	bMin, bMax := b.Min(), b.Max()
	var out []vec.Vec3
	for x := floorInt(bMin[0]); float64(x) < bMax[0]; x++ {
		for y := floorInt(bMin[1]); float64(y) < bMax[1]; y++ {
			for z := floorInt(bMin[2]); float64(z) < bMax[2]; z++ {
				cell := vec.Vec3{X: x, Y: y, Z: z}
				if b.IntersectsBlock(cell) {
					out = append(out, cell)
				}
			}
		}
	}
	return out
}

func floorInt(f float64) int {
	i := int(f)
	if float64(i) > f {
		i--
	}
	return i
}
