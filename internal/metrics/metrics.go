package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ragamuffin/voxelcore/internal/logging"
)

const namespace = "voxelcore"

// Metrics инкапсулирует Prometheus-метрики ядра мира.
// Все методы безопасны для вызова на nil: компоненты могут работать без метрик.
type Metrics struct {
	registry *prometheus.Registry

	chunksGenerated    prometheus.Counter
	blocksBroken       *prometheus.CounterVec
	blocksPlaced       *prometheus.CounterVec
	placementsRejected *prometheus.CounterVec
	hitsDecayed        prometheus.Counter
	structures         prometheus.Gauge
	largeStructures    prometheus.Gauge
	playerBlocks       prometheus.Gauge
}

// New создаёт набор метрик в собственном регистре
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_generated_total",
			Help:      "Количество сгенерированных чанков.",
		}),
		blocksBroken: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_broken_total",
			Help:      "Разрушенные блоки по типу.",
		}, []string{"block"}),
		blocksPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_placed_total",
			Help:      "Установленные игроком блоки по типу.",
		}, []string{"block"}),
		placementsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_rejected_total",
			Help:      "Отклонённые попытки установки по причине.",
		}, []string{"reason"}),
		hitsDecayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hit_records_decayed_total",
			Help:      "Записи прогресса добычи, сброшенные по таймауту.",
		}),
		structures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "structures",
			Help:      "Структуры, найденные последним сканированием.",
		}),
		largeStructures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "large_structures",
			Help:      "Крупные структуры, найденные последним сканированием.",
		}),
		playerBlocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "player_blocks",
			Help:      "Блоки, установленные игроком, на момент последнего сканирования.",
		}),
	}

	m.registry.MustRegister(
		m.chunksGenerated,
		m.blocksBroken,
		m.blocksPlaced,
		m.placementsRejected,
		m.hitsDecayed,
		m.structures,
		m.largeStructures,
		m.playerBlocks,
	)
	if err := registerProcess(m.registry); err != nil {
		logging.Warn("Метрики процесса недоступны: %v", err)
	}
	return m
}

// Registry возвращает регистр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler возвращает HTTP-обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartHTTP запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (m *Metrics) StartHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	go func() {
		logging.Info("Prometheus /metrics доступен по адресу %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// ChunkGenerated учитывает сгенерированный чанк
func (m *Metrics) ChunkGenerated() {
	if m == nil {
		return
	}
	m.chunksGenerated.Inc()
}

// BlockBroken учитывает разрушенный блок
func (m *Metrics) BlockBroken(blockName string) {
	if m == nil {
		return
	}
	m.blocksBroken.WithLabelValues(blockName).Inc()
}

// BlockPlaced учитывает установленный блок
func (m *Metrics) BlockPlaced(blockName string) {
	if m == nil {
		return
	}
	m.blocksPlaced.WithLabelValues(blockName).Inc()
}

// PlacementRejected учитывает отклонённую установку
func (m *Metrics) PlacementRejected(reason string) {
	if m == nil {
		return
	}
	m.placementsRejected.WithLabelValues(reason).Inc()
}

// HitsDecayed учитывает сброшенные записи прогресса
func (m *Metrics) HitsDecayed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.hitsDecayed.Add(float64(n))
}

// StructureScan записывает результат сканирования структур
func (m *Metrics) StructureScan(playerBlocks, structures, large int) {
	if m == nil {
		return
	}
	m.playerBlocks.Set(float64(playerBlocks))
	m.structures.Set(float64(structures))
	m.largeStructures.Set(float64(large))
}
