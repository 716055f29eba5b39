// Package metrics exposes Prometheus instrumentation for feature subset searches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "mofes"
	subsystem = "search"
)

// Metrics groups the collectors updated by a search. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Evaluations prometheus.Counter
	CacheHits   prometheus.Counter
	Generations prometheus.Counter
	FrontSize   prometheus.Gauge
}

// New creates the collectors and registers them with reg. When reg is nil the
// collectors are created but left unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluations_total",
			Help:      "Number of evaluator invocations for previously unseen subsets.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cache_hits_total",
			Help:      "Number of evaluations answered from the evaluation cache.",
		}),
		Generations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "generations_total",
			Help:      "Number of completed generations.",
		}),
		FrontSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "front_size",
			Help:      "Number of rank 0 candidates after the latest selection.",
		}),
	}
}

func (m *Metrics) ObserveEvaluation() {
	if m == nil {
		return
	}
	m.Evaluations.Inc()
}

func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// ObserveGeneration records a finished generation and the size of its front.
func (m *Metrics) ObserveGeneration(frontSize int) {
	if m == nil {
		return
	}
	m.Generations.Inc()
	m.FrontSize.Set(float64(frontSize))
}
