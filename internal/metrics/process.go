package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
)

// registerProcess добавляет метрики текущего процесса (RSS и загрузка CPU).
// Значения снимаются gopsutil в момент сбора; при ошибке чтения отдаётся 0.
func registerProcess(reg prometheus.Registerer) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	rss := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "process_rss_bytes",
		Help:      "Резидентная память процесса.",
	}, func() float64 {
		info, err := proc.MemoryInfo()
		if err != nil {
			return 0
		}
		return float64(info.RSS)
	})

	cpu := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "process_cpu_percent",
		Help:      "Загрузка CPU процессом, проценты.",
	}, func() float64 {
		pct, err := proc.CPUPercent()
		if err != nil {
			return 0
		}
		return pct
	})

	return reg.Register(multiCollector{rss, cpu})
}

// multiCollector регистрирует несколько коллекторов одним вызовом.
type multiCollector []prometheus.Collector

func (mc multiCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range mc {
		c.Describe(ch)
	}
}

func (mc multiCollector) Collect(ch chan<- prometheus.Metric) {
	for _, c := range mc {
		c.Collect(ch)
	}
}
