package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_ChunkCoords(t *testing.T) {
	cases := []struct {
		pos   Vec3
		chunk Vec3
		local Vec3
	}{
		{New(0, 0, 0), New(0, 0, 0), New(0, 0, 0)},
		{New(15, 16, 17), New(0, 1, 1), New(15, 0, 1)},
		{New(-1, -16, -17), New(-1, -1, -2), New(15, 0, 15)},
	}

	for _, c := range cases {
		assert.Equal(t, c.chunk, c.pos.ToChunkCoords(), "координаты чанка для %v", c.pos)
		assert.Equal(t, c.local, c.pos.LocalInChunk(), "локальные координаты для %v", c.pos)
		assert.Equal(t, c.pos, c.chunk.ChunkOrigin().Add(c.local), "обратное преобразование для %v", c.pos)
	}
}

func TestVec3_Less(t *testing.T) {
	assert.True(t, New(5, 0, 5).Less(New(0, 1, 0)), "Y сравнивается первым")
	assert.True(t, New(0, 1, 9).Less(New(1, 1, 0)))
	assert.False(t, New(1, 1, 1).Less(New(1, 1, 1)))
}

func TestVec3_Neighbors6(t *testing.T) {
	n := New(1, 2, 3).Neighbors6()
	seen := make(map[Vec3]bool)
	for _, v := range n {
		dx, dy, dz := v.X-1, v.Y-2, v.Z-3
		assert.Equal(t, 1, dx*dx+dy*dy+dz*dz, "сосед %v должен отстоять на один блок", v)
		seen[v] = true
	}
	assert.Len(t, seen, 6, "все соседи должны быть различны")
}
