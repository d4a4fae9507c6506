package storage

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragamuffin/voxelcore/internal/inventory"
)

func testPlayerRepo(t *testing.T, repo PlayerRepo) {
	ctx := context.Background()
	st := PlayerState{
		Feet:  mgl64.Vec3{7.5, 1, 5.5},
		Look:  mgl64.Vec3{-1, -1, 0},
		Slots: []inventory.Slot{{Material: inventory.Brick, Count: 3}, {}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, "alice", st))

		got, found, err := repo.Load(ctx, "alice")
		require.NoError(t, err)
		require.True(t, found, "состояние должно найтись")
		assert.Equal(t, st, got)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		got, found, err := repo.Load(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, PlayerState{}, got)
	})

	t.Run("Update", func(t *testing.T) {
		moved := st
		moved.Feet = mgl64.Vec3{1, 2, 3}
		require.NoError(t, repo.Save(ctx, "alice", moved))

		got, _, err := repo.Load(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, moved.Feet, got.Feet)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "alice"))
		_, found, err := repo.Load(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, found, "состояние должно быть удалено")
	})

	t.Run("Invalid Name", func(t *testing.T) {
		assert.ErrorIs(t, repo.Save(ctx, "", st), ErrInvalidPlayer)
		_, _, err := repo.Load(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidPlayer)
	})

	t.Run("Context Cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, repo.Save(cancelled, "bob", st), context.Canceled)
	})
}

func TestMemoryPlayerRepo(t *testing.T) {
	testPlayerRepo(t, NewMemoryPlayerRepo())
}

func TestMemoryPlayerRepo_CopiesSlots(t *testing.T) {
	repo := NewMemoryPlayerRepo()
	ctx := context.Background()
	st := PlayerState{Slots: []inventory.Slot{{Material: inventory.Wood, Count: 1}}}
	require.NoError(t, repo.Save(ctx, "alice", st))

	st.Slots[0].Count = 99
	got, _, err := repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Slots[0].Count, "репозиторий должен хранить копию")
	assert.Equal(t, 1, repo.Count())
}

func TestBadgerPlayerRepo(t *testing.T) {
	ws, err := NewInMemoryWorldStorage()
	require.NoError(t, err)
	defer ws.Close()

	testPlayerRepo(t, ws.Players())
}

func TestBadgerPlayerRepo_Closed(t *testing.T) {
	ws, err := NewInMemoryWorldStorage()
	require.NoError(t, err)
	require.NoError(t, ws.Close())

	err = ws.Players().Save(context.Background(), "alice", PlayerState{})
	assert.ErrorIs(t, err, ErrNotReady)
}
