package building

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/physics"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// Причины отказа в установке (метка метрики)
const (
	ReasonNotPlaceable = "not_placeable"
	ReasonNoTarget     = "no_target"
	ReasonOutOfBounds  = "out_of_bounds"
	ReasonOccupied     = "occupied"
	ReasonNoMaterial   = "no_material"
	ReasonCollision    = "collision"
	ReasonDoorBlocked  = "door_blocked"
	ReasonWrongFace    = "wrong_face"
)

// World описывает часть мира, которую изменяет установщик
type World interface {
	world.BlockReader
	SetPlayerBlock(x, y, z int, t block.BlockType)
	PlaceProp(p world.PropPlacement)
	PlaceSmallItem(item world.SmallItem)
}

// Inventory отдаёт материалы для установки
type Inventory interface {
	HasItem(m inventory.Material, count int) bool
	RemoveItem(m inventory.Material, count int) bool
}

// BlockPlacer проверяет и выполняет установку блоков, мебели и мелких предметов.
// Любой отказ не меняет ни мир, ни инвентарь.
// Не безопасен для конкурентного использования.
type BlockPlacer struct {
	metrics *metrics.Metrics
	log     *logging.Logger
}

// Option настраивает BlockPlacer
type Option func(*BlockPlacer)

// WithMetrics подключает метрики Prometheus
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *BlockPlacer) {
		p.metrics = m
	}
}

// NewBlockPlacer создаёт установщик
func NewBlockPlacer(opts ...Option) *BlockPlacer {
	p := &BlockPlacer{log: logging.GetBuildingLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *BlockPlacer) reject(reason string, m inventory.Material) bool {
	p.metrics.PlacementRejected(reason)
	p.log.Trace("установка %s отклонена: %s", m, reason)
	return false
}

// PlacementPosition возвращает клетку, в которую встал бы блок, без изменения мира
func (p *BlockPlacer) PlacementPosition(w world.BlockReader, origin, direction mgl64.Vec3, maxDistance float64) (vec.Vec3, bool) {
	hit, ok := world.Raycast(w, origin, direction, maxDistance)
	if !ok || hit.Face == world.FaceNone {
		return vec.Vec3{}, false
	}
	if !world.InBounds(hit.Adjacent.Y) {
		return vec.Vec3{}, false
	}
	return hit.Adjacent, true
}

// PlaceBlock ставит блок из материала в клетку перед гранью, в которую смотрит игрок.
// player может быть nil: тогда столкновение с игроком не проверяется.
func (p *BlockPlacer) PlaceBlock(w World, inv Inventory, m inventory.Material, origin, direction mgl64.Vec3, maxDistance float64, player *physics.AABB) bool {
	bt, ok := MaterialToBlockType(m)
	if !ok {
		return p.reject(ReasonNotPlaceable, m)
	}

	hit, ok := world.Raycast(w, origin, direction, maxDistance)
	if !ok || hit.Face == world.FaceNone {
		return p.reject(ReasonNoTarget, m)
	}
	target := hit.Adjacent

	if !world.InBounds(target.Y) {
		return p.reject(ReasonOutOfBounds, m)
	}
	if w.GetBlock(target.X, target.Y, target.Z).IsSolid() {
		return p.reject(ReasonOccupied, m)
	}
	if !inv.HasItem(m, 1) {
		return p.reject(ReasonNoMaterial, m)
	}
	occupied := playerCells(player)
	if _, ok := occupied[target]; ok {
		return p.reject(ReasonCollision, m)
	}

	if bt == block.DoorLower {
		return p.placeDoor(w, inv, m, target, occupied)
	}

	if !inv.RemoveItem(m, 1) {
		return p.reject(ReasonNoMaterial, m)
	}
	w.SetPlayerBlock(target.X, target.Y, target.Z, bt)
	p.metrics.BlockPlaced(bt.String())
	p.log.Debug("блок %s установлен в %v", bt, target)
	return true
}

// placeDoor ставит обе половины двери. Проверка нижней клетки уже выполнена.
func (p *BlockPlacer) placeDoor(w World, inv Inventory, m inventory.Material, lower vec.Vec3, occupied map[vec.Vec3]struct{}) bool {
	upper := lower.Up()
	if !world.InBounds(upper.Y) || w.GetBlock(upper.X, upper.Y, upper.Z).IsSolid() {
		return p.reject(ReasonDoorBlocked, m)
	}
	if _, ok := occupied[upper]; ok {
		return p.reject(ReasonCollision, m)
	}

	if !inv.RemoveItem(m, 1) {
		return p.reject(ReasonNoMaterial, m)
	}
	w.SetPlayerBlock(lower.X, lower.Y, lower.Z, block.DoorLower)
	w.SetPlayerBlock(upper.X, upper.Y, upper.Z, block.DoorUpper)
	p.metrics.BlockPlaced(block.DoorLower.String())
	p.metrics.BlockPlaced(block.DoorUpper.String())
	p.log.Debug("дверь установлена в %v", lower)
	return true
}

// playerCells возвращает клетки, которые занимает игрок; для nil пустое множество
func playerCells(player *physics.AABB) map[vec.Vec3]struct{} {
	if player == nil {
		return nil
	}
	cells := player.CellsOverlapped()
	out := make(map[vec.Vec3]struct{}, len(cells))
	for _, c := range cells {
		out[c] = struct{}{}
	}
	return out
}

// PlaceProp ставит мебель на верхнюю грань блока.
// Возвращает тип мебели и true при успехе, PropNone и false при отказе.
func (p *BlockPlacer) PlaceProp(w World, inv Inventory, m inventory.Material, origin, direction mgl64.Vec3, maxDistance float64) (world.PropType, bool) {
	pt := MaterialToPropType(m)
	if pt == world.PropNone {
		return world.PropNone, p.reject(ReasonNotPlaceable, m)
	}

	hit, ok := world.Raycast(w, origin, direction, maxDistance)
	if !ok {
		return world.PropNone, p.reject(ReasonNoTarget, m)
	}
	if hit.Face != world.FaceTop {
		return world.PropNone, p.reject(ReasonWrongFace, m)
	}
	above := hit.Adjacent
	if !world.InBounds(above.Y) || w.GetBlock(above.X, above.Y, above.Z).IsSolid() {
		return world.PropNone, p.reject(ReasonOccupied, m)
	}
	if !inv.RemoveItem(m, 1) {
		return world.PropNone, p.reject(ReasonNoMaterial, m)
	}

	// Мебель стоит по центру верхней грани опорного блока
	anchor := mgl64.Vec3{
		float64(hit.Block.X) + 0.5,
		float64(hit.Block.Y + 1),
		float64(hit.Block.Z) + 0.5,
	}
	w.PlaceProp(world.NewPropPlacement(pt, anchor, hit.Block))
	p.log.Debug("мебель %s установлена на %v", pt, hit.Block)
	return pt, true
}

// PlaceSmallItem кладёт мелкий предмет точно в точку попадания луча на верхней грани
func (p *BlockPlacer) PlaceSmallItem(w World, inv Inventory, m inventory.Material, origin, direction mgl64.Vec3, maxDistance float64) bool {
	if !m.IsSmallItem() {
		return p.reject(ReasonNotPlaceable, m)
	}

	hit, ok := world.Raycast(w, origin, direction, maxDistance)
	if !ok {
		return p.reject(ReasonNoTarget, m)
	}
	if hit.Face != world.FaceTop {
		return p.reject(ReasonWrongFace, m)
	}
	if !inv.RemoveItem(m, 1) {
		return p.reject(ReasonNoMaterial, m)
	}

	w.PlaceSmallItem(world.NewSmallItem(m, hit.Point))
	p.log.Debug("предмет %s положен в %v", m, hit.Point)
	return true
}
