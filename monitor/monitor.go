// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	CommandsHandled   prometheus.Counter
	CommandLatency    prometheus.Histogram
	KnownAccounts     prometheus.Gauge
	ActiveGames       prometheus.Gauge
	BroadcastFailures prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		CommandsHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_handled_total",
			Help:      "Total number of commands and actions handled",
		}),
		CommandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_latency_seconds",
			Help:      "Command handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		KnownAccounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "known_accounts",
			Help:      "Number of registered accounts",
		}),
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of games currently in play",
		}),
		BroadcastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcast_failures_total",
			Help:      "Total number of failed broadcast deliveries",
		}),
	}

	prometheus.MustRegister(
		m.CommandsHandled,
		m.CommandLatency,
		m.KnownAccounts,
		m.ActiveGames,
		m.BroadcastFailures,
	)

	return m
}

type Monitor struct {
	metrics      *Metrics
	startTime    time.Time
	requestCount int64
	mutex        sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("requests", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.requestCount
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncCommandsHandled() {
	m.metrics.CommandsHandled.Inc()
	m.mutex.Lock()
	m.requestCount++
	m.mutex.Unlock()
}

func (m *Monitor) ObserveCommandLatency(duration time.Duration) {
	m.metrics.CommandLatency.Observe(duration.Seconds())
}

func (m *Monitor) SetKnownAccounts(count int) {
	m.metrics.KnownAccounts.Set(float64(count))
}

func (m *Monitor) SetActiveGames(count int) {
	m.metrics.ActiveGames.Set(float64(count))
}

func (m *Monitor) AddBroadcastFailures(count int) {
	m.metrics.BroadcastFailures.Add(float64(count))
}
