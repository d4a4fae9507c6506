package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Face определяет грань блока, в которую попал луч
type Face int

const (
	FaceNone Face = iota // Луч начался внутри блока
	FaceWest             // -X
	FaceEast             // +X
	FaceBottom           // -Y
	FaceTop              // +Y
	FaceNorth            // -Z
	FaceSouth            // +Z
)

// Offset возвращает смещение к соседней клетке за гранью
func (f Face) Offset() vec.Vec3 {
	switch f {
	case FaceWest:
		return vec.Vec3{X: -1}
	case FaceEast:
		return vec.Vec3{X: 1}
	case FaceBottom:
		return vec.Vec3{Y: -1}
	case FaceTop:
		return vec.Vec3{Y: 1}
	case FaceNorth:
		return vec.Vec3{Z: -1}
	case FaceSouth:
		return vec.Vec3{Z: 1}
	}
	return vec.Vec3{}
}

func (f Face) String() string {
	switch f {
	case FaceWest:
		return "WEST"
	case FaceEast:
		return "EAST"
	case FaceBottom:
		return "BOTTOM"
	case FaceTop:
		return "TOP"
	case FaceNorth:
		return "NORTH"
	case FaceSouth:
		return "SOUTH"
	}
	return "NONE"
}

// BlockReader описывает чтение мира, нужное лучу
type BlockReader interface {
	GetBlock(x, y, z int) block.BlockType
}

// RaycastHit описывает результат попадания луча
type RaycastHit struct {
	Block    vec.Vec3        // Клетка, в которую попал луч
	Type     block.BlockType // Тип блока в этой клетке
	Face     Face            // Грань попадания
	Adjacent vec.Vec3        // Пустая клетка за гранью, цель для установки
	Point    mgl64.Vec3      // Точка попадания на грани
	Distance float64         // Расстояние от начала луча до точки попадания
}

// Raycast пускает луч через воксельную сетку (DDA) и возвращает первый непустой блок.
// Возвращает false, если направление нулевое, в пределах maxDistance нет блока
// или луч покинул вертикальные границы мира. Луч, начатый выше или ниже мира,
// идёт до входа в его границы.
func Raycast(w BlockReader, origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	length := direction.Len()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return RaycastHit{}, false
	}
	// Бесконечная дальность превратила бы горизонтальный луч в бесконечный цикл
	if maxDistance <= 0 || math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) {
		return RaycastHit{}, false
	}
	dir := direction.Mul(1 / length)

	// Направление шага (1 или -1), текущая клетка, расстояние до первой границы и шаг между границами.
	// Начало на грани относится к клетке позади луча, тогда первая граница пересекается при t = 0.
	var step, cell [3]int
	var tMax, tDelta [3]float64
	onFace := false
	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		o := origin[axis]
		cell[axis] = int(math.Floor(o))
		switch {
		case d > 0:
			if float64(cell[axis]) == o {
				cell[axis]--
				onFace = true
			}
			step[axis] = 1
			tMax[axis] = (float64(cell[axis]+1) - o) / d
			tDelta[axis] = 1 / d
		case d < 0:
			if float64(cell[axis]) == o {
				onFace = true
			}
			step[axis] = -1
			tMax[axis] = (float64(cell[axis]) - o) / d
			tDelta[axis] = -1 / d
		default:
			tMax[axis] = math.Inf(1)
			tDelta[axis] = math.Inf(1)
		}
	}

	if leavingWorld(cell[1], step[1]) {
		return RaycastHit{}, false
	}

	if !onFace && InBounds(cell[1]) {
		current := vec.Vec3{X: cell[0], Y: cell[1], Z: cell[2]}
		if t := w.GetBlock(current.X, current.Y, current.Z); !t.IsAir() {
			return RaycastHit{
				Block:    current,
				Type:     t,
				Face:     FaceNone,
				Adjacent: current,
				Point:    origin,
			}, true
		}
	}

	for {
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}

		t := tMax[axis]
		if t > maxDistance {
			return RaycastHit{}, false
		}

		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if !InBounds(cell[1]) {
			if leavingWorld(cell[1], step[1]) {
				return RaycastHit{}, false
			}
			// Ещё не вошли в мир
			continue
		}

		bt := w.GetBlock(cell[0], cell[1], cell[2])
		if bt.IsAir() {
			continue
		}

		face := enteredFace(axis, step[axis])
		hitCell := vec.Vec3{X: cell[0], Y: cell[1], Z: cell[2]}

		point := origin.Add(dir.Mul(t))
		// Координата вдоль оси пересечения лежит ровно на плоскости грани
		if step[axis] > 0 {
			point[axis] = float64(cell[axis])
		} else {
			point[axis] = float64(cell[axis] + 1)
		}

		return RaycastHit{
			Block:    hitCell,
			Type:     bt,
			Face:     face,
			Adjacent: hitCell.Add(face.Offset()),
			Point:    point,
			Distance: t,
		}, true
	}
}

// leavingWorld сообщает, что луч вне вертикальных границ и уже не войдёт в них
func leavingWorld(y, stepY int) bool {
	return (y >= MaxHeight && stepY >= 0) || (y < MinHeight && stepY <= 0)
}

// enteredFace возвращает грань, через которую луч вошёл в клетку при шаге вдоль оси
func enteredFace(axis, step int) Face {
	switch axis {
	case 0:
		if step > 0 {
			return FaceWest
		}
		return FaceEast
	case 1:
		if step > 0 {
			return FaceBottom
		}
		return FaceTop
	default:
		if step > 0 {
			return FaceNorth
		}
		return FaceSouth
	}
}
