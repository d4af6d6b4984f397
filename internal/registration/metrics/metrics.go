package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the registration flow.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	Compensations *prometheus.CounterVec
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_registration_submissions_total",
			Help: "Registration submissions by outcome",
		}, []string{"outcome"}),
		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "painel_registration_compensations_total",
			Help: "Credentials deleted after a failed tenant write, by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncCompensation(result string) {
	if m != nil {
		m.Compensations.WithLabelValues(result).Inc()
	}
}
