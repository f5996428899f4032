package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bjctl"

// Failure stages.
const (
	stageCheck    = "check"
	stageSubmit   = "submit"
	stageFinalize = "finalize"
	stageRefresh  = "refresh"
)

// Metrics counts actions by outcome. A nil *Metrics records nothing.
type Metrics struct {
	submitted *prometheus.CounterVec
	failed    *prometheus.CounterVec
	finalize  *prometheus.HistogramVec
	refreshes prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "actions_submitted_total",
			Help:      "Requests accepted by the node, by action.",
		}, []string{"action"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "actions_failed_total",
			Help:      "Actions that returned an error, by action and stage.",
		}, []string{"action", "stage"}),
		finalize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "finalize_seconds",
			Help:      "Time from submission until the request settled.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
		}, []string{"action"}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "refreshes_total",
			Help:      "Completed game state refreshes.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submitted, m.failed, m.finalize, m.refreshes)
	}
	return m
}

func (m *Metrics) incSubmitted(a Action) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(string(a)).Inc()
}

func (m *Metrics) incFailed(a Action, stage string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(string(a), stage).Inc()
}

func (m *Metrics) observeFinalize(a Action, d time.Duration) {
	if m == nil {
		return
	}
	m.finalize.WithLabelValues(string(a)).Observe(d.Seconds())
}

func (m *Metrics) incRefresh() {
	if m == nil {
		return
	}
	m.refreshes.Inc()
}
