package vec

import "fmt"

// ChunkShift равен log2 размера чанка по каждой оси
const ChunkShift = 4

// ChunkSize задаёт длину ребра чанка в блоках
const ChunkSize = 1 << ChunkShift

// Vec3 представляет трехмерный вектор с целочисленными координатами блока
type Vec3 struct {
	X int
	Y int
	Z int
}

// New создаёт Vec3 из трёх координат
func New(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// ToChunkCoords преобразует координаты блока в координаты чанка.
// Арифметический сдвиг даёт деление с округлением вниз и для отрицательных значений.
func (v Vec3) ToChunkCoords() Vec3 {
	return Vec3{X: v.X >> ChunkShift, Y: v.Y >> ChunkShift, Z: v.Z >> ChunkShift}
}

// LocalInChunk возвращает локальные координаты внутри чанка (0..15)
func (v Vec3) LocalInChunk() Vec3 {
	const mask = ChunkSize - 1
	return Vec3{X: v.X & mask, Y: v.Y & mask, Z: v.Z & mask}
}

// ChunkOrigin возвращает мировые координаты угла чанка с координатами v
func (v Vec3) ChunkOrigin() Vec3 {
	return Vec3{X: v.X << ChunkShift, Y: v.Y << ChunkShift, Z: v.Z << ChunkShift}
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Up возвращает соседнюю клетку сверху
func (v Vec3) Up() Vec3 {
	return Vec3{X: v.X, Y: v.Y + 1, Z: v.Z}
}

// Down возвращает соседнюю клетку снизу
func (v Vec3) Down() Vec3 {
	return Vec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

// Less задаёт полный порядок (Y, затем X, затем Z) для детерминированной сортировки
func (v Vec3) Less(other Vec3) bool {
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	if v.X != other.X {
		return v.X < other.X
	}
	return v.Z < other.Z
}

// Neighbors6 возвращает шесть соседей по граням
func (v Vec3) Neighbors6() [6]Vec3 {
	return [6]Vec3{
		{X: v.X + 1, Y: v.Y, Z: v.Z},
		{X: v.X - 1, Y: v.Y, Z: v.Z},
		{X: v.X, Y: v.Y + 1, Z: v.Z},
		{X: v.X, Y: v.Y - 1, Z: v.Z},
		{X: v.X, Y: v.Y, Z: v.Z + 1},
		{X: v.X, Y: v.Y, Z: v.Z - 1},
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}
