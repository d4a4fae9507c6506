package logging

import (
	"fmt"
	"sort"
	"sync"
)

// Компоненты ядра, у каждого свой логгер и свой файл
const (
	ComponentWorld     = "world"
	ComponentMining    = "mining"
	ComponentBuilding  = "building"
	ComponentStructure = "structure"
	ComponentStorage   = "storage"
	ComponentEvents    = "events"
)

// LoggerManager хранит логгеры компонентов.
// Уровень консоли общий, но для отдельных компонентов его можно переопределить.
type LoggerManager struct {
	mu        sync.RWMutex
	loggers   map[string]*Logger
	dir       string // Пусто: только консоль
	level     LogLevel
	overrides map[string]LogLevel
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

func newManager() *LoggerManager {
	return &LoggerManager{
		loggers:   make(map[string]*Logger),
		level:     INFO,
		overrides: make(map[string]LogLevel),
	}
}

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = newManager()
	})
	return globalManager
}

func (lm *LoggerManager) levelFor(component string) LogLevel {
	if lvl, ok := lm.overrides[component]; ok {
		return lvl
	}
	return lm.level
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()
	if ok {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()
	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}

	logger, err := NewLogger(component, lm.dir)
	if err != nil {
		return nil, fmt.Errorf("логгер компонента %s: %w", component, err)
	}
	logger.SetLevel(lm.levelFor(component))
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер; если файл открыть не удалось, логгер пишет только в консоль
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err == nil {
		return logger
	}

	defaultLogger.log(WARN, "%v, только консоль", err)
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if existing, ok := lm.loggers[component]; ok {
		return existing
	}
	fallback := &Logger{
		component:       component,
		consoleLogger:   defaultLogger.consoleLogger,
		minConsoleLevel: lm.levelFor(component),
		minFileLevel:    ERROR,
	}
	lm.loggers[component] = fallback
	return fallback
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("закрытие логгера %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// Components возвращает отсортированный список созданных логгеров
func (lm *LoggerManager) Components() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	out := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		out = append(out, component)
	}
	sort.Strings(out)
	return out
}

// SetDirectory задаёт каталог файлов логов для компонентов, созданных после вызова
func (lm *LoggerManager) SetDirectory(dir string) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.dir = dir
}

// SetConsoleLevel задаёт общий уровень консоли. Переопределённые компоненты не затрагиваются.
func (lm *LoggerManager) SetConsoleLevel(level LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.level = level
	for component, logger := range lm.loggers {
		logger.SetLevel(lm.levelFor(component))
	}
}

// SetComponentLevel переопределяет уровень консоли одного компонента
func (lm *LoggerManager) SetComponentLevel(component string, level LogLevel) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.overrides[component] = level
	if logger, ok := lm.loggers[component]; ok {
		logger.SetLevel(level)
	}
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

func GetWorldLogger() *Logger     { return GetComponentLogger(ComponentWorld) }
func GetMiningLogger() *Logger    { return GetComponentLogger(ComponentMining) }
func GetBuildingLogger() *Logger  { return GetComponentLogger(ComponentBuilding) }
func GetStructureLogger() *Logger { return GetComponentLogger(ComponentStructure) }
func GetStorageLogger() *Logger   { return GetComponentLogger(ComponentStorage) }
func GetEventsLogger() *Logger    { return GetComponentLogger(ComponentEvents) }
