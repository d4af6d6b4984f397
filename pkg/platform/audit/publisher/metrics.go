package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit publisher.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsDropped   prometheus.Counter
	PersistFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "painel_audit_queue_depth",
			Help: "Current number of events in the audit publisher queue",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_audit_events_dropped_total",
			Help: "Audit events dropped because the buffer was full",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_audit_persist_failures_total",
			Help: "Audit events the store failed to append",
		}),
	}
}

func (m *Metrics) setQueueDepth(n int) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.EventsDropped.Inc()
	}
}

func (m *Metrics) incPersistFailure() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}
