package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for grid refreshes and edits.
type Metrics struct {
	Refreshes       *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	StaleRefreshes  prometheus.Counter
	CoalescedEvents prometheus.Counter
	UnresolvedRows  prometheus.Counter
	EditRollbacks   prometheus.Counter
	ActiveStreams   prometheus.Gauge
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_listing_refreshes_total",
			Help: "Grid refreshes by outcome",
		}, []string{"outcome"}),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "painel_listing_refresh_duration_seconds",
			Help:    "Time to read the collection and resolve every company name",
			Buckets: prometheus.DefBuckets,
		}),
		StaleRefreshes: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_listing_stale_refreshes_total",
			Help: "Refreshes discarded because a newer one was already delivered",
		}),
		CoalescedEvents: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_listing_coalesced_changes_total",
			Help: "Tenant changes folded into an already pending refresh",
		}),
		UnresolvedRows: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_listing_unresolved_rows_total",
			Help: "Rows whose company name could not be resolved",
		}),
		EditRollbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_listing_edit_rollbacks_total",
			Help: "Inline edits rolled back after a failed write",
		}),
		ActiveStreams: f.NewGauge(prometheus.GaugeOpts{
			Name: "painel_listing_streams_active",
			Help: "Open listing push connections",
		}),
	}
}

func (m *Metrics) ObserveRefresh(outcome string, d time.Duration) {
	if m != nil {
		m.Refreshes.WithLabelValues(outcome).Inc()
		m.RefreshDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncStale() {
	if m != nil {
		m.StaleRefreshes.Inc()
	}
}

func (m *Metrics) IncCoalesced() {
	if m != nil {
		m.CoalescedEvents.Inc()
	}
}

func (m *Metrics) AddUnresolved(n int) {
	if m != nil && n > 0 {
		m.UnresolvedRows.Add(float64(n))
	}
}

func (m *Metrics) IncRollback() {
	if m != nil {
		m.EditRollbacks.Inc()
	}
}

func (m *Metrics) StreamOpened() {
	if m != nil {
		m.ActiveStreams.Inc()
	}
}

func (m *Metrics) StreamClosed() {
	if m != nil {
		m.ActiveStreams.Dec()
	}
}
