package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for credential and session operations.
type Metrics struct {
	CredentialsCreated prometheus.Counter
	CredentialsDeleted prometheus.Counter
	SignIns            *prometheus.CounterVec
	SignOuts           prometheus.Counter
	SessionRejections  *prometheus.CounterVec
}

// New registers auth metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers auth metrics with reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CredentialsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_credentials_created_total",
			Help: "Total number of credentials created",
		}),
		CredentialsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_credentials_deleted_total",
			Help: "Total number of credentials deleted",
		}),
		SignIns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_sign_ins_total",
			Help: "Sign-in attempts by outcome",
		}, []string{"outcome"}),
		SignOuts: f.NewCounter(prometheus.CounterOpts{
			Name: "painel_sign_outs_total",
			Help: "Total number of sign-outs",
		}),
		SessionRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_session_rejections_total",
			Help: "Requests rejected by the session gate, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncCredentialCreated() {
	if m != nil {
		m.CredentialsCreated.Inc()
	}
}

func (m *Metrics) IncCredentialDeleted() {
	if m != nil {
		m.CredentialsDeleted.Inc()
	}
}

func (m *Metrics) IncSignIn(outcome string) {
	if m != nil {
		m.SignIns.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncSignOut() {
	if m != nil {
		m.SignOuts.Inc()
	}
}

func (m *Metrics) IncSessionRejected(reason string) {
	if m != nil {
		m.SessionRejections.WithLabelValues(reason).Inc()
	}
}
