package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for tenant writes and the change feed.
type Metrics struct {
	TenantsRegistered   prometheus.Counter
	TenantsUpdated      prometheus.Counter
	TenantWriteFailures *prometheus.CounterVec
	FeedPublishFailures prometheus.Counter
	ActiveSubscriptions prometheus.Gauge
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_tenants_registered_total",
			Help: "Total number of tenants registered",
		}),
		TenantsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_tenants_updated_total",
			Help: "Total number of tenant term updates",
		}),
		TenantWriteFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_tenant_write_failures_total",
			Help: "Failed tenant writes by operation",
		}, []string{"operation"}),
		FeedPublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_tenant_feed_publish_failures_total",
			Help: "Tenant changes that could not be published to subscribers",
		}),
		ActiveSubscriptions: f.NewGauge(prometheus.GaugeOpts{
			Name: "painel_tenant_subscriptions_active",
			Help: "Open subscriptions to the tenant collection",
		}),
	}
}

func (m *Metrics) IncRegistered() {
	if m != nil {
		m.TenantsRegistered.Inc()
	}
}

func (m *Metrics) IncUpdated() {
	if m != nil {
		m.TenantsUpdated.Inc()
	}
}

func (m *Metrics) IncWriteFailure(operation string) {
	if m != nil {
		m.TenantWriteFailures.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) IncFeedPublishFailure() {
	if m != nil {
		m.FeedPublishFailures.Inc()
	}
}

func (m *Metrics) SubscriptionOpened() {
	if m != nil {
		m.ActiveSubscriptions.Inc()
	}
}

func (m *Metrics) SubscriptionClosed() {
	if m != nil {
		m.ActiveSubscriptions.Dec()
	}
}
