// Package metrics exposes Prometheus instrumentation for the bridge: per
// route request counts and latencies, auth failures, engine availability,
// and audit buffer pressure.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"evalhq/hermes/pkg/config"
)

// Collector owns the Prometheus registry and all bridge metrics. A disabled
// collector keeps the full API but records nothing.
type Collector struct {
	enabled   bool
	registry  *prometheus.Registry
	namespace string
	subsystem string

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    prometheus.Counter
	engineUp        prometheus.Gauge
	probeFailures   prometheus.Counter
}

// NewCollector creates the collector and registers all metrics. A nil
// registry allocates a private one, which keeps tests isolated.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "hermes"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "bridge"
	}

	c := &Collector{
		enabled:   !cfg.Disabled,
		registry:  registry,
		namespace: cfg.Namespace,
		subsystem: cfg.Subsystem,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of gateway requests served",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway requests in seconds",
				// Dispatches are in-process; most complete well under a
				// second, evaluations can run to the 30s timeout.
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.0, 5.0, 15.0, 30.0},
			},
			[]string{"method", "path"},
		),

		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "auth_failures_total",
			Help:      "Total number of rejected API key checks",
		}),

		engineUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "engine_up",
			Help:      "Whether the embedded engine answers its health probe (1) or not (0)",
		}),

		probeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "engine_probe_failures_total",
			Help:      "Total number of failed scheduled engine probes",
		}),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.authFailures,
		c.engineUp,
		c.probeFailures,
	)

	return c
}

// ObserveRequest records one completed gateway request.
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	if !c.enabled {
		return
	}
	c.requestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAuthFailure counts one rejected API key check.
func (c *Collector) RecordAuthFailure() {
	if !c.enabled {
		return
	}
	c.authFailures.Inc()
}

// SetEngineUp publishes the latest engine probe outcome.
func (c *Collector) SetEngineUp(up bool) {
	if !c.enabled {
		return
	}
	if up {
		c.engineUp.Set(1)
	} else {
		c.engineUp.Set(0)
		c.probeFailures.Inc()
	}
}

// RegisterAuditDropped exposes the audit recorder's drop counter as a gauge.
func (c *Collector) RegisterAuditDropped(fn func() int64) {
	if !c.enabled || fn == nil {
		return
	}
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: c.subsystem,
		Name:      "audit_dropped_total",
		Help:      "Audit entries dropped because the write buffer was full",
	}, func() float64 { return float64(fn()) }))
}

// Enabled reports whether recording is active.
func (c *Collector) Enabled() bool {
	return c.enabled
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
