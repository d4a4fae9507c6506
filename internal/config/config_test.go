package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ragamuffin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RAGAMUFFIN_CONFIG", "")
	t.Setenv("RAGAMUFFIN_SEED", "")
	t.Setenv("RAGAMUFFIN_METRICS_PORT", "")
	t.Setenv("RAGAMUFFIN_PLAYER", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(12345), cfg.World.GetSeed())
	assert.Equal(t, 5.0, cfg.Mining.GetRegenerationSeconds())
	assert.Equal(t, 10, cfg.Structure.GetSmallThreshold())
	assert.Equal(t, 50, cfg.Structure.GetLargeThreshold())
	assert.Equal(t, 36, cfg.Player.GetInventorySlots())
	assert.Equal(t, "player", cfg.Player.GetName())
	assert.Equal(t, 2112, cfg.Metrics.GetPort())
	assert.Equal(t, "INFO", cfg.Logging.GetLevel())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
world:
  seed: 0
mining:
  regeneration_seconds: 2.5
structure:
  small_threshold: 4
  large_threshold: 20
player:
  name: alice
  reach: 6
  starting_items:
    BRICK: 64
    DOOR: 2
storage:
  path: /tmp/ragamuffin
metrics:
  port: -1
logging:
  level: DEBUG
  components:
    mining: TRACE
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(0), cfg.World.GetSeed(), "явный нулевой сид не заменяется значением по умолчанию")
	assert.Equal(t, 2.5, cfg.Mining.GetRegenerationSeconds())
	assert.Equal(t, 4, cfg.Structure.GetSmallThreshold())
	assert.Equal(t, 20, cfg.Structure.GetLargeThreshold())
	assert.Equal(t, 6.0, cfg.Player.GetReach())
	assert.Equal(t, "alice", cfg.Player.GetName())
	assert.Equal(t, map[string]int{"BRICK": 64, "DOOR": 2}, cfg.Player.StartingItems)
	assert.Equal(t, "/tmp/ragamuffin", cfg.Storage.GetPath())
	assert.Equal(t, 0, cfg.Metrics.GetPort(), "отрицательный порт отключает метрики")
	assert.Equal(t, "DEBUG", cfg.Logging.GetLevel())
	assert.Equal(t, map[string]string{"mining": "TRACE"}, cfg.Logging.Components)
}

func TestLoad_EnvPath(t *testing.T) {
	path := writeConfig(t, "structure:\n  max_builders: 3\n")
	t.Setenv("RAGAMUFFIN_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Structure.GetMaxBuilders())
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("RAGAMUFFIN_SEED", "-42")
	t.Setenv("RAGAMUFFIN_LARGE_STRUCTURE", "75")
	t.Setenv("RAGAMUFFIN_STACK_LIMIT", "not-a-number")

	cfg := &Config{}
	assert.Equal(t, int64(-42), cfg.World.GetSeed())
	assert.Equal(t, 75, cfg.Structure.GetLargeThreshold())
	assert.Equal(t, 64, cfg.Player.GetStackLimit(), "некорректное значение окружения игнорируется")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "world: [unclosed"))
	assert.Error(t, err)
}
