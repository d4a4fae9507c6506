package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ragamuffin/voxelcore/internal/config"
	"github.com/ragamuffin/voxelcore/internal/eventbus"
	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/metrics"
	"github.com/ragamuffin/voxelcore/internal/storage"
)

// tickInterval задаёт шаг игрового цикла (20 тиков в секунду)
const tickInterval = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $RAGAMUFFIN_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("ragamuffin", cfg.Logging.GetDir()); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	level, err := logging.ParseLevel(cfg.Logging.GetLevel())
	if err != nil {
		logging.Warn("%v, используется INFO", err)
	}
	logging.SetDefaultLevel(level)
	manager := logging.GetLoggerManager()
	manager.SetDirectory(cfg.Logging.GetDir())
	manager.SetConsoleLevel(level)
	for component, name := range cfg.Logging.Components {
		lvl, err := logging.ParseLevel(name)
		if err != nil {
			logging.Warn("компонент %s: %v", component, err)
			continue
		}
		manager.SetComponentLevel(component, lvl)
	}
	defer manager.CloseAll()

	seed := cfg.World.GetSeed()
	logging.Info("🎮 Запуск Ragamuffin, сид %d", seed)

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===

	m := metrics.New()

	bus := eventbus.NewMemoryBus(256)
	defer bus.Close()
	if err := eventbus.RegisterMetrics(m.Registry(), bus); err != nil {
		logging.Error("❌ Ошибка регистрации метрик шины: %v", err)
	}
	if _, err := eventbus.StartLoggingListener(bus, logging.GetEventsLogger()); err != nil {
		logging.Error("❌ Ошибка подписки на события: %v", err)
	}

	if port := cfg.Metrics.GetPort(); port > 0 {
		m.StartHTTP(fmt.Sprintf(":%d", port))
	}

	var store *storage.WorldStorage
	if path := cfg.Storage.GetPath(); path != "" {
		logging.Debug("Открытие хранилища %s...", path)
		store, err = storage.NewWorldStorage(path)
	} else {
		logging.Debug("Хранилище не задано, изменения живут только в памяти")
		store, err = storage.NewInMemoryWorldStorage()
	}
	if err != nil {
		logging.Error("❌ Ошибка открытия хранилища: %v", err)
		log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
	}
	defer store.Close()

	session, err := NewSession(cfg, m, store, bus, os.Stdout)
	if err != nil {
		logging.Error("❌ Ошибка создания сессии: %v", err)
		log.Fatalf("❌ Ошибка создания сессии: %v", err)
	}

	// Команды читаются из stdin в отдельной горутине
	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- scanner.Text()
		}
		close(commands)
	}()

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	scanTicker := time.NewTicker(time.Duration(cfg.Structure.GetScanEvery()) * time.Second)
	defer scanTicker.Stop()
	saveTicker := time.NewTicker(time.Duration(cfg.Storage.GetSaveEvery()) * time.Second)
	defer saveTicker.Stop()

	logging.Info("✅ Сессия готова, ожидание команд")

	last := time.Now()
loop:
	for {
		select {
		case now := <-ticker.C:
			session.Tick(now.Sub(last).Seconds())
			last = now

		case <-scanTicker.C:
			session.Scan()

		case <-saveTicker.C:
			if err := session.Save(); err != nil {
				logging.Error("❌ Ошибка автосохранения: %v", err)
			}

		case line, ok := <-commands:
			if !ok {
				logging.Debug("stdin закрыт")
				break loop
			}
			quit, err := session.Execute(line)
			if err != nil {
				if errors.Is(err, ErrUnknownCommand) {
					logging.Warn("%v", err)
				} else {
					logging.Error("%v", err)
				}
			}
			if quit {
				break loop
			}

		case sig := <-sigCh:
			logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
			break loop
		}
	}

	// === GRACEFUL SHUTDOWN ===
	if err := session.Save(); err != nil {
		logging.Error("❌ Ошибка сохранения при выходе: %v", err)
	}
	logging.Info("👋 Сессия завершена")
}
