package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ragamuffin/voxelcore/internal/building"
	"github.com/ragamuffin/voxelcore/internal/config"
	"github.com/ragamuffin/voxelcore/internal/drops"
	"github.com/ragamuffin/voxelcore/internal/eventbus"
	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/mining"
	"github.com/ragamuffin/voxelcore/internal/physics"
	"github.com/ragamuffin/voxelcore/internal/storage"
	"github.com/ragamuffin/voxelcore/internal/structure"
	"github.com/ragamuffin/voxelcore/internal/util"
	"github.com/ragamuffin/voxelcore/internal/world"
)

var (
	// ErrUnknownCommand возвращается для нераспознанной команды
	ErrUnknownCommand = errors.New("неизвестная команда")
	// ErrInventoryFull возвращается, когда подобранный предмет некуда положить
	ErrInventoryFull = errors.New("инвентарь полон")
)

// eyeHeight задаёт высоту глаз над ступнями игрока
const eyeHeight = 1.6

// Session объединяет одну игровую сессию без графики: мир, игрока и все системы ядра
type Session struct {
	world   *world.World
	inv     *inventory.Inventory
	breaker *mining.BlockBreaker
	placer  *building.BlockPlacer
	tracker *structure.StructureTracker
	drops   *drops.BlockDropTable
	store   *storage.WorldStorage
	players storage.PlayerRepo
	rng     *rand.Rand

	name string

	feet  mgl64.Vec3
	look  mgl64.Vec3
	reach float64

	out io.Writer
	log *logging.Logger
}

// NewSession собирает сессию по конфигурации. store и bus могут быть nil.
func NewSession(cfg *config.Config, m *metrics.Metrics, store *storage.WorldStorage, bus eventbus.EventBus, out io.Writer) (*Session, error) {
	seed := cfg.World.GetSeed()
	log := logging.GetWorldLogger()

	opts := []world.Option{world.WithMetrics(m)}
	if bus != nil {
		opts = append(opts, world.WithEventSink(publishTo(bus, log)))
	}

	s := &Session{
		world: world.NewWorld(seed, opts...),
		inv:   inventory.NewInventory(cfg.Player.GetInventorySlots(), cfg.Player.GetStackLimit()),
		breaker: mining.NewBlockBreaker(
			mining.WithRegenerationWindow(cfg.Mining.GetRegenerationSeconds()),
			mining.WithMetrics(m),
		),
		placer: building.NewBlockPlacer(building.WithMetrics(m)),
		tracker: structure.NewStructureTracker(
			structure.WithThresholds(cfg.Structure.GetSmallThreshold(), cfg.Structure.GetLargeThreshold()),
			structure.WithMaxBuilders(cfg.Structure.GetMaxBuilders()),
			structure.WithMetrics(m),
		),
		drops: drops.NewBlockDropTable(),
		store: store,
		rng:   util.NewRand(seed, 0x5eed),
		name:  cfg.Player.GetName(),
		feet:  mgl64.Vec3{0.5, float64(world.GroundLevel + 1), 0.5},
		look:  mgl64.Vec3{0, 0, 1},
		reach: cfg.Player.GetReach(),
		out:   out,
		log:   log,
	}

	if store != nil {
		s.players = store.Players()
		if _, err := store.LoadWorld(s.world); err != nil {
			return nil, fmt.Errorf("загрузка мира: %w", err)
		}
		if err := store.LoadItems(s.world); err != nil {
			return nil, fmt.Errorf("загрузка предметов: %w", err)
		}
	} else {
		s.players = storage.NewMemoryPlayerRepo()
	}

	st, found, err := s.players.Load(context.Background(), s.name)
	if err != nil {
		return nil, fmt.Errorf("загрузка игрока %s: %w", s.name, err)
	}
	if found {
		s.feet, s.look = st.Feet, st.Look
		s.inv.Restore(st.Slots)
		return s, nil
	}

	// Стартовый набор выдаётся только при первом входе
	for name, count := range cfg.Player.StartingItems {
		mat, ok := inventory.MaterialFromName(name)
		if !ok {
			s.log.Warn("неизвестный материал в стартовом наборе: %s", name)
			continue
		}
		if !s.inv.AddItem(mat, count) {
			s.log.Warn("стартовый набор не помещается в инвентарь: %s x%d", name, count)
		}
	}

	return s, nil
}

// publishTo пересылает события мира в шину
func publishTo(bus eventbus.EventBus, log *logging.Logger) world.EventSink {
	return func(ev world.Event) {
		env, err := eventbus.NewEnvelope("world", ev.GetType().String(), ev)
		if err != nil {
			log.Error("%v", err)
			return
		}
		if err := bus.Publish(context.Background(), env); err != nil {
			log.Warn("событие %s не опубликовано: %v", env.EventType, err)
		}
	}
}

func (s *Session) eye() mgl64.Vec3 {
	return s.feet.Add(mgl64.Vec3{0, eyeHeight, 0})
}

// Tick продвигает время сессии
func (s *Session) Tick(deltaSeconds float64) {
	s.breaker.TickDecay(deltaSeconds)
}

// Scan пересобирает структуры игрока и сообщает о крупных
func (s *Session) Scan() {
	s.tracker.ScanForStructures(s.world)
	for _, st := range s.tracker.LargeStructures() {
		s.log.Info("крупная структура %s: %d блоков, строителей %d, точка появления %v",
			st.ID, st.Complexity, s.tracker.CalculateBuilderCount(st), s.tracker.SpawnPoint(st))
	}
}

// Save сохраняет состояние игрока и, если хранилище подключено, изменения мира
func (s *Session) Save() error {
	st := storage.PlayerState{Feet: s.feet, Look: s.look, Slots: s.inv.Snapshot()}
	if err := s.players.Save(context.Background(), s.name, st); err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	if _, err := s.store.SaveDirtyChunks(s.world); err != nil {
		return err
	}
	return s.store.SaveItems(s.world)
}

// Execute выполняет одну текстовую команду. quit == true означает конец сессии.
func (s *Session) Execute(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil

	case "move":
		v, err := parseVec(args)
		if err != nil {
			return false, err
		}
		s.feet = v
		s.printf("игрок в %.2f %.2f %.2f", v[0], v[1], v[2])

	case "look":
		v, err := parseVec(args)
		if err != nil {
			return false, err
		}
		if v.Len() == 0 {
			return false, fmt.Errorf("look: нулевое направление")
		}
		s.look = v

	case "target":
		hit, ok := world.Raycast(s.world, s.eye(), s.look, s.reach)
		if !ok {
			s.printf("нет цели")
			break
		}
		s.printf("%s в %v, грань %s", hit.Type, hit.Block, hit.Face)

	case "punch":
		s.punch()

	case "place":
		mat, err := parseMaterial(args)
		if err != nil {
			return false, err
		}
		player := physics.NewPlayerAABB(s.feet)
		s.printf("установка %s: %v", mat, s.placer.PlaceBlock(s.world, s.inv, mat, s.eye(), s.look, s.reach, player))

	case "prop":
		mat, err := parseMaterial(args)
		if err != nil {
			return false, err
		}
		pt, ok := s.placer.PlaceProp(s.world, s.inv, mat, s.eye(), s.look, s.reach)
		s.printf("мебель %s: %v", pt, ok)

	case "item":
		mat, err := parseMaterial(args)
		if err != nil {
			return false, err
		}
		s.printf("предмет %s: %v", mat, s.placer.PlaceSmallItem(s.world, s.inv, mat, s.eye(), s.look, s.reach))

	case "pickup":
		idx, err := parseIndex(cmd, args)
		if err != nil {
			return false, err
		}
		if err := s.pickup(idx); err != nil {
			return false, err
		}

	case "unprop":
		idx, err := parseIndex(cmd, args)
		if err != nil {
			return false, err
		}
		if err := s.unprop(idx); err != nil {
			return false, err
		}

	case "inv":
		for i := 0; i < s.inv.Size(); i++ {
			if slot := s.inv.Slot(i); !slot.Empty() {
				s.printf("%2d: %s x%d", i, slot.Material, slot.Count)
			}
		}

	case "scan":
		s.Scan()
		s.printf("структур: %d, крупных: %d", len(s.tracker.Structures()), len(s.tracker.LargeStructures()))

	case "save":
		if err := s.Save(); err != nil {
			return false, err
		}
		s.printf("сохранено")

	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	return false, nil
}

// punch бьёт блок под прицелом и кладёт дроп в инвентарь
func (s *Session) punch() {
	hit, ok := world.Raycast(s.world, s.eye(), s.look, s.reach)
	if !ok {
		s.printf("нет цели")
		return
	}
	p := hit.Block
	if !s.breaker.PunchBlock(s.world, p.X, p.Y, p.Z) {
		s.printf("%s: %d/%d", hit.Type, s.breaker.HitCount(p.X, p.Y, p.Z), s.breaker.HitsRequired(hit.Type))
		return
	}

	mat, ok := s.drops.GetDrop(hit.Type, s.landmarkAt(p.X, p.Z), s.rng)
	if !ok {
		s.printf("%s разрушен", hit.Type)
		return
	}
	if !s.inv.AddItem(mat, 1) {
		// Дроп остаётся лежать в мире
		s.world.PlaceSmallItem(world.NewSmallItem(mat, hit.Point))
		s.printf("%s разрушен, инвентарь полон, %s оставлен на месте", hit.Type, mat)
		return
	}
	s.printf("%s разрушен, получено %s", hit.Type, mat)
}

// pickup переносит мелкий предмет из мира в инвентарь.
// Предмет убирается из мира только после того, как нашлось место в инвентаре.
func (s *Session) pickup(idx int) error {
	items := s.world.SmallItems()
	if idx < 0 || idx >= len(items) {
		return fmt.Errorf("pickup %d of %d: %w", idx, len(items), world.ErrIndexOutOfRange)
	}
	item := items[idx]
	if !s.inv.AddItem(item.Material, 1) {
		return fmt.Errorf("pickup %s: %w", item.Material, ErrInventoryFull)
	}
	if _, err := s.world.RemoveSmallItem(idx); err != nil {
		s.inv.RemoveItem(item.Material, 1)
		return err
	}
	s.printf("подобран %s", item.Material)
	return nil
}

// unprop убирает мебель и возвращает её материал в инвентарь
func (s *Session) unprop(idx int) error {
	props := s.world.PropPositions()
	if idx < 0 || idx >= len(props) {
		return fmt.Errorf("unprop %d of %d: %w", idx, len(props), world.ErrIndexOutOfRange)
	}
	prop := props[idx]
	mat, ok := building.PropToMaterial(prop.Type)
	if !ok {
		return fmt.Errorf("unprop: нет материала для %s", prop.Type)
	}
	if !s.inv.AddItem(mat, 1) {
		return fmt.Errorf("unprop %s: %w", prop.Type, ErrInventoryFull)
	}
	if _, err := s.world.RemoveProp(idx); err != nil {
		s.inv.RemoveItem(mat, 1)
		return err
	}
	s.printf("мебель %s убрана", prop.Type)
	return nil
}

func (s *Session) landmarkAt(x, z int) drops.Landmark {
	if s.world.Generator().PlotKindAt(x, z) == world.PlotPark {
		return drops.LandmarkPark
	}
	return drops.LandmarkNone
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

func parseVec(args []string) (mgl64.Vec3, error) {
	if len(args) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("ожидается три координаты, получено %d", len(args))
	}
	var v mgl64.Vec3
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("координата %q: %w", a, err)
		}
		v[i] = f
	}
	return v, nil
}

func parseIndex(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: ожидается индекс", cmd)
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd, err)
	}
	return idx, nil
}

func parseMaterial(args []string) (inventory.Material, error) {
	if len(args) != 1 {
		return inventory.None, fmt.Errorf("ожидается имя материала")
	}
	m, ok := inventory.MaterialFromName(strings.ToUpper(args[0]))
	if !ok {
		return inventory.None, fmt.Errorf("неизвестный материал %s", args[0])
	}
	return m, nil
}
