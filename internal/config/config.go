package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации.
// Незаданные поля берутся из переменных окружения, затем из значений по умолчанию.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Mining    MiningConfig    `yaml:"mining"`
	Structure StructureConfig `yaml:"structure"`
	Player    PlayerConfig    `yaml:"player"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type WorldConfig struct {
	Seed *int64 `yaml:"seed"` // nil, если сид не задан
}

type MiningConfig struct {
	RegenerationSeconds float64 `yaml:"regeneration_seconds"`
}

type StructureConfig struct {
	SmallThreshold int `yaml:"small_threshold"`
	LargeThreshold int `yaml:"large_threshold"`
	MaxBuilders    int `yaml:"max_builders"`
	ScanEvery      int `yaml:"scan_every_seconds"`
}

type PlayerConfig struct {
	Name           string         `yaml:"name"`
	InventorySlots int            `yaml:"inventory_slots"`
	StackLimit     int            `yaml:"stack_limit"`
	Reach          float64        `yaml:"reach"`
	StartingItems  map[string]int `yaml:"starting_items"` // Имя материала -> количество
}

type StorageConfig struct {
	Path      string `yaml:"path"` // Пустой путь: хранилище в памяти
	SaveEvery int    `yaml:"save_every_seconds"`
}

type MetricsConfig struct {
	Port int `yaml:"port"` // 0: из окружения или по умолчанию; -1: отключено
}

type LoggingConfig struct {
	Level      string            `yaml:"level"`
	Dir        string            `yaml:"dir"`
	Components map[string]string `yaml:"components"` // Компонент -> уровень
}

// GetSeed возвращает сид мира с поддержкой fallback значений
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != nil {
		return *w.Seed
	}
	if envVal := os.Getenv("RAGAMUFFIN_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 12345
}

// GetRegenerationSeconds возвращает окно регенерации прогресса добычи
func (m *MiningConfig) GetRegenerationSeconds() float64 {
	if m.RegenerationSeconds > 0 {
		return m.RegenerationSeconds
	}
	return 5
}

// GetSmallThreshold возвращает минимальный размер структуры
func (s *StructureConfig) GetSmallThreshold() int {
	return getIntWithEnvFallback(s.SmallThreshold, "RAGAMUFFIN_SMALL_STRUCTURE", 10)
}

// GetLargeThreshold возвращает размер крупной структуры
func (s *StructureConfig) GetLargeThreshold() int {
	return getIntWithEnvFallback(s.LargeThreshold, "RAGAMUFFIN_LARGE_STRUCTURE", 50)
}

// GetMaxBuilders возвращает максимум строителей на структуру
func (s *StructureConfig) GetMaxBuilders() int {
	return getIntWithEnvFallback(s.MaxBuilders, "RAGAMUFFIN_MAX_BUILDERS", 8)
}

// GetScanEvery возвращает период сканирования структур в секундах
func (s *StructureConfig) GetScanEvery() int {
	return getIntWithEnvFallback(s.ScanEvery, "RAGAMUFFIN_SCAN_EVERY", 10)
}

// GetName возвращает имя игрока, под которым сохраняется его состояние
func (p *PlayerConfig) GetName() string {
	if p.Name != "" {
		return p.Name
	}
	if envVal := os.Getenv("RAGAMUFFIN_PLAYER"); envVal != "" {
		return envVal
	}
	return "player"
}

// GetInventorySlots возвращает размер инвентаря
func (p *PlayerConfig) GetInventorySlots() int {
	return getIntWithEnvFallback(p.InventorySlots, "RAGAMUFFIN_INVENTORY_SLOTS", 36)
}

// GetStackLimit возвращает размер стака
func (p *PlayerConfig) GetStackLimit() int {
	return getIntWithEnvFallback(p.StackLimit, "RAGAMUFFIN_STACK_LIMIT", 64)
}

// GetReach возвращает дальность взаимодействия игрока в блоках
func (p *PlayerConfig) GetReach() float64 {
	if p.Reach > 0 {
		return p.Reach
	}
	return 5
}

// GetPath возвращает каталог хранилища
func (s *StorageConfig) GetPath() string {
	if s.Path != "" {
		return s.Path
	}
	return os.Getenv("RAGAMUFFIN_DATA")
}

// GetSaveEvery возвращает период автосохранения в секундах
func (s *StorageConfig) GetSaveEvery() int {
	return getIntWithEnvFallback(s.SaveEvery, "RAGAMUFFIN_SAVE_EVERY", 30)
}

// GetPort возвращает порт Prometheus метрик; 0 означает, что эндпоинт отключён
func (m *MetricsConfig) GetPort() int {
	if m.Port < 0 {
		return 0
	}
	return getIntWithEnvFallback(m.Port, "RAGAMUFFIN_METRICS_PORT", 2112)
}

// GetLevel возвращает уровень логирования
func (l *LoggingConfig) GetLevel() string {
	if l.Level != "" {
		return l.Level
	}
	if envVal := os.Getenv("RAGAMUFFIN_LOG_LEVEL"); envVal != "" {
		return envVal
	}
	return "INFO"
}

// GetDir возвращает каталог файлов логов; пустая строка означает только консоль
func (l *LoggingConfig) GetDir() string {
	if l.Dir != "" {
		return l.Dir
	}
	return os.Getenv("RAGAMUFFIN_LOG_DIR")
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(configValue int, envVar string, defaultValue int) int {
	// Если значение задано в конфиге и больше 0, используем его
	if configValue > 0 {
		return configValue
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}

	// Используем дефолтное значение
	return defaultValue
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV RAGAMUFFIN_CONFIG;
// если и он не задан, возвращает пустой конфиг (все значения по умолчанию).
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("RAGAMUFFIN_CONFIG")
		if path == "" {
			return &Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	return &cfg, nil
}
