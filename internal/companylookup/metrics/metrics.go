package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for company-name lookups.
type Metrics struct {
	Lookups          *prometheus.CounterVec
	LookupDuration   prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheErrors      prometheus.Counter
	BreakerRejected  prometheus.Counter
	BreakerOpen      prometheus.Gauge
	DeduplicatedHits prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_company_lookups_total",
			Help: "Company-name lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "painel_company_lookup_duration_seconds",
			Help:    "Duration of company-name lookups, cache hits included",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_company_lookup_cache_hits_total",
			Help: "Company names served from cache",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_company_lookup_cache_misses_total",
			Help: "Company names not found in cache",
		}),
		CacheErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_company_lookup_cache_errors_total",
			Help: "Cache reads or writes that failed",
		}),
		BreakerRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_company_lookup_breaker_rejected_total",
			Help: "Lookups failed fast because the circuit was open",
		}),
		BreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "painel_company_lookup_breaker_open",
			Help: "1 while the registry circuit is open",
		}),
		DeduplicatedHits: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_company_lookup_deduplicated_total",
			Help: "Lookups that shared an in-flight request for the same tax id",
		}),
	}
}

func (m *Metrics) ObserveLookup(outcome string, seconds float64) {
	if m != nil {
		m.Lookups.WithLabelValues(outcome).Inc()
		m.LookupDuration.Observe(seconds)
	}
}

func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) IncCacheError() {
	if m != nil {
		m.CacheErrors.Inc()
	}
}

func (m *Metrics) IncBreakerRejected() {
	if m != nil {
		m.BreakerRejected.Inc()
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

func (m *Metrics) IncDeduplicated() {
	if m != nil {
		m.DeduplicatedHits.Inc()
	}
}
