package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the sync pipeline.
type Metrics struct {
	SyncsTotal     *prometheus.CounterVec
	AirportsStored prometheus.Gauge
	SyncDuration   prometheus.Histogram
}

// New registers sync metrics on the given registerer under the
// namespace. Passing a fresh registry keeps tests isolated.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SyncsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_total",
			Help:      "The total number of completed sync attempts",
		}, []string{"result"}),
		AirportsStored: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "airports_stored",
			Help:      "The number of airport records currently persisted",
		}),
		SyncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken by one fetch-decode-replace cycle",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveSync records the outcome of one completed sync attempt.
func (m *Metrics) ObserveSync(success bool, stored int, seconds float64) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
		m.AirportsStored.Set(float64(stored))
	}
	m.SyncsTotal.WithLabelValues(result).Inc()
	m.SyncDuration.Observe(seconds)
}
