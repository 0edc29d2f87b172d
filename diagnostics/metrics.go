package diagnostics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks transform calls per stage. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	calls     *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	nonFinite *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "asymfourier_transform_calls_total",
			Help: "Number of transform calls by stage",
		}, []string{"stage"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asymfourier_transform_duration_seconds",
			Help:    "Wall time of transform calls by stage",
			Buckets: prometheus.ExponentialBuckets(1.e-6, 4, 12),
		}, []string{"stage"}),
		nonFinite: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "asymfourier_nonfinite_results_total",
			Help: "Transform calls that produced NaN or Inf, by stage",
		}, []string{"stage"}),
	}
}

// ObserveCall records one completed call of stage
func (m *Metrics) ObserveCall(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(stage).Inc()
	m.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *Metrics) NonFinite(stage string) {
	if m == nil {
		return
	}
	m.nonFinite.WithLabelValues(stage).Inc()
}
