package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics holds Prometheus metrics for session lifecycle and the
// access guard.
type SessionMetrics struct {
	LoginsTotal    *prometheus.CounterVec
	RegistersTotal *prometheus.CounterVec
	LogoutsTotal   prometheus.Counter
	GuardDecisions *prometheus.CounterVec
}

// NewSessionMetrics creates and registers session metrics on the given registry.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Total login attempts, by outcome.",
		}, []string{"outcome"}),
		RegistersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "registrations_total",
			Help:      "Total registration attempts, by outcome.",
		}, []string{"outcome"}),
		LogoutsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logouts_total",
			Help:      "Total logouts.",
		}),
		GuardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Access guard evaluations, by decision.",
		}, []string{"decision"}),
	}

	reg.MustRegister(m.LoginsTotal, m.RegistersTotal, m.LogoutsTotal, m.GuardDecisions)
	return m
}

// Guard decision labels.
const (
	GuardAllowed      = "allowed"
	GuardAnonymous    = "anonymous"
	GuardRoleMismatch = "role_mismatch"
)
