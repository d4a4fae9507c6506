package main

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragamuffin/voxelcore/internal/config"
	"github.com/ragamuffin/voxelcore/internal/eventbus"
	"github.com/ragamuffin/voxelcore/internal/inventory"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/storage"
	"github.com/ragamuffin/voxelcore/internal/world"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

func newTestSession(t *testing.T, store *storage.WorldStorage, items map[string]int) (*Session, *bytes.Buffer) {
	t.Helper()
	seed := int64(12345)
	cfg := &config.Config{}
	cfg.World.Seed = &seed
	cfg.Player.StartingItems = items

	var out bytes.Buffer
	s, err := NewSession(cfg, metrics.New(), store, nil, &out)
	require.NoError(t, err)
	return s, &out
}

func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, l := range lines {
		_, err := s.Execute(l)
		require.NoError(t, err, "команда %q", l)
	}
}

func TestSession_PlaceAndBreak(t *testing.T) {
	s, out := newTestSession(t, nil, map[string]int{"PLANKS": 1})

	// Игрок смотрит вниз по диагонали на проезжую часть у точки появления
	run(t, s, "move 3.5 1 0.5", "look -1 -1 0")
	run(t, s, "target")
	assert.Contains(t, out.String(), "ROAD в (1,0,0)")

	run(t, s, "place planks")
	assert.Equal(t, 0, s.inv.ItemCount(inventory.Planks))

	require.Equal(t, block.WoodPlanks, s.world.GetBlock(1, 1, 0), "доски должны лечь на дорогу")

	for i := 0; i < 5; i++ {
		run(t, s, "punch")
	}
	assert.Equal(t, 1, s.inv.ItemCount(inventory.Planks), "разрушенные доски возвращают доски")
}

// fillInventory занимает все слоты камнем
func fillInventory(t *testing.T, s *Session) {
	t.Helper()
	require.True(t, s.inv.AddItem(inventory.Stone, inventory.DefaultSlots*inventory.DefaultStackLimit))
	require.False(t, s.inv.AddItem(inventory.Stone, 1), "инвентарь должен быть заполнен")
}

func TestSession_PickupWithFullInventory(t *testing.T) {
	s, _ := newTestSession(t, nil, nil)
	s.world.PlaceSmallItem(world.NewSmallItem(inventory.Pint, mgl64.Vec3{0.5, 1, 0.5}))
	fillInventory(t, s)

	_, err := s.Execute("pickup 0")
	assert.ErrorIs(t, err, ErrInventoryFull)
	assert.Len(t, s.world.SmallItems(), 1, "предмет должен остаться в мире")
	assert.Equal(t, 0, s.inv.ItemCount(inventory.Pint))

	_, err = s.Execute("pickup 3")
	assert.ErrorIs(t, err, world.ErrIndexOutOfRange)
}

func TestSession_PunchWithFullInventoryLeavesDrop(t *testing.T) {
	s, out := newTestSession(t, nil, map[string]int{"PLANKS": 1})
	run(t, s, "move 3.5 1 0.5", "look -1 -1 0", "place planks")
	require.Equal(t, block.WoodPlanks, s.world.GetBlock(1, 1, 0))
	fillInventory(t, s)

	for i := 0; i < 5; i++ {
		run(t, s, "punch")
	}

	assert.Equal(t, block.Air, s.world.GetBlock(1, 1, 0))
	assert.Equal(t, 0, s.inv.ItemCount(inventory.Planks))
	items := s.world.SmallItems()
	require.Len(t, items, 1, "дроп должен остаться лежать в мире")
	assert.Equal(t, inventory.Planks, items[0].Material)
	assert.Contains(t, out.String(), "инвентарь полон")

	_, err := s.Execute("pickup 0")
	assert.ErrorIs(t, err, ErrInventoryFull)
}

func TestSession_Unprop(t *testing.T) {
	s, out := newTestSession(t, nil, map[string]int{"MATTRESS": 1})

	run(t, s, "look 0 -1 0", "prop mattress")
	require.Len(t, s.world.PropPositions(), 1)
	require.Equal(t, 0, s.inv.ItemCount(inventory.Mattress))

	run(t, s, "unprop 0")
	assert.Empty(t, s.world.PropPositions())
	assert.Equal(t, 1, s.inv.ItemCount(inventory.Mattress), "мебель возвращается в инвентарь")
	assert.Contains(t, out.String(), "мебель BED убрана")

	_, err := s.Execute("unprop 0")
	assert.ErrorIs(t, err, world.ErrIndexOutOfRange)

	run(t, s, "prop mattress")
	fillInventory(t, s)
	_, err = s.Execute("unprop 0")
	assert.ErrorIs(t, err, ErrInventoryFull)
	assert.Len(t, s.world.PropPositions(), 1, "мебель остаётся в мире")
}

func TestSession_Commands(t *testing.T) {
	s, out := newTestSession(t, nil, map[string]int{"SHILLING": 1, "UNOBTAINIUM": 3})

	run(t, s, "look 0 -1 0", "item shilling", "inv")
	require.Len(t, s.world.SmallItems(), 1)

	run(t, s, "pickup 0")
	assert.Equal(t, 1, s.inv.ItemCount(inventory.Shilling))
	assert.Contains(t, out.String(), "подобран SHILLING")

	_, err := s.Execute("pickup 0")
	assert.Error(t, err, "пустой список предметов")

	_, err = s.Execute("dance")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = s.Execute("look 0 0 0")
	assert.Error(t, err)

	quit, err := s.Execute("quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestSession_SaveAndRestore(t *testing.T) {
	store, err := storage.NewInMemoryWorldStorage()
	require.NoError(t, err)
	defer store.Close()

	s, _ := newTestSession(t, store, map[string]int{"BRICK": 2})
	run(t, s, "move 7.5 1 5.5", "look -1 -1 0", "place brick", "save")
	require.Equal(t, block.Brick, s.world.GetBlock(5, 1, 5))

	restored, _ := newTestSession(t, store, nil)
	assert.Equal(t, block.Brick, restored.world.GetBlock(5, 1, 5))
	assert.True(t, restored.world.IsPlayerPlaced(5, 1, 5))

	assert.Equal(t, mgl64.Vec3{7.5, 1, 5.5}, restored.feet, "позиция игрока восстанавливается")
	assert.Equal(t, mgl64.Vec3{-1, -1, 0}, restored.look)
	assert.Equal(t, 1, restored.inv.ItemCount(inventory.Brick), "инвентарь восстанавливается без стартового набора")
}

func TestSession_Scan(t *testing.T) {
	s, out := newTestSession(t, nil, nil)
	for x := 0; x < 5; x++ {
		for z := 0; z < 5; z++ {
			s.world.SetPlayerBlock(x+5, 1, z+5, block.Brick)
			s.world.SetPlayerBlock(x+5, 2, z+5, block.Brick)
		}
	}
	run(t, s, "scan")
	assert.Contains(t, out.String(), "структур: 1, крупных: 1")
}

func TestSession_PublishesWorldEvents(t *testing.T) {
	seed := int64(12345)
	cfg := &config.Config{}
	cfg.World.Seed = &seed
	cfg.Player.StartingItems = map[string]int{"BRICK": 1}

	bus := eventbus.NewMemoryBus(16)
	var mu sync.Mutex
	var types []string
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Sources: []string{"world"}}, func(ctx context.Context, ev *eventbus.Envelope) {
		mu.Lock()
		types = append(types, ev.EventType)
		mu.Unlock()
	})
	require.NoError(t, err)

	var out bytes.Buffer
	s, err := NewSession(cfg, metrics.New(), nil, bus, &out)
	require.NoError(t, err)
	run(t, s, "move 7.5 1 5.5", "look -1 -1 0", "place brick")
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"BlockChange"}, types)
}
