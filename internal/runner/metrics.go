package runner

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments hosted sessions.
type Metrics struct {
	activeSessions prometheus.Gauge
	submissions    *prometheus.CounterVec
}

// NewMetrics registers the runner collectors on reg. A nil reg yields unregistered
// collectors, which is what tests use.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quizrunner",
			Name:      "active_sessions",
			Help:      "Quiz sessions currently hosted by this instance.",
		}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quizrunner",
			Name:      "submissions_total",
			Help:      "Submissions sent to the learning platform by stage and outcome.",
		}, []string{"stage", "outcome"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.activeSessions, m.submissions} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register runner metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) setActive(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func (m *Metrics) submission(stage string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.submissions.WithLabelValues(stage, outcome).Inc()
}
