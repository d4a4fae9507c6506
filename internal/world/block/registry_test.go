package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockType_Names(t *testing.T) {
	for _, bt := range All() {
		name := bt.String()
		assert.NotEqual(t, "UNKNOWN", name, "тип %d должен иметь имя", bt)

		parsed, ok := FromName(name)
		assert.True(t, ok, "имя %s должно разбираться обратно", name)
		assert.Equal(t, bt, parsed)
	}
}

func TestBlockType_AirIsZero(t *testing.T) {
	var zero BlockType
	assert.Equal(t, Air, zero, "нулевое значение должно быть воздухом")
	assert.True(t, zero.IsAir())
	assert.False(t, Brick.IsAir())
}

func TestBlockType_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", BlockType(9999).String())

	_, ok := FromName("MARBLE")
	assert.False(t, ok)
}

func TestBlockType_Doors(t *testing.T) {
	assert.True(t, DoorLower.IsDoor())
	assert.True(t, DoorUpper.IsDoor())
	assert.False(t, Wood.IsDoor())
}

func TestBlockType_Solid(t *testing.T) {
	assert.False(t, Air.IsSolid())
	assert.False(t, Water.IsSolid(), "вода не мешает установке")
	assert.True(t, Brick.IsSolid())
	assert.True(t, Leaves.IsSolid())
}
