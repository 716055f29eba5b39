package algorithms

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
	"github.com/mofes/featureselection/pkg/multiobjective/metrics"
)

// Result is the outcome of one search.
type Result struct {
	// Front lists the feature subsets of the final rank 0 candidates, ordered
	// by length and then lexicographically.
	Front [][]int
	// Population is the final, ranked population.
	Population []framework.Candidate
	Stats      Stats
}

// Stats summarises the work done by a search.
type Stats struct {
	Generations int
	// Evaluations counts evaluator invocations, i.e. distinct subsets scored.
	Evaluations int64
	CacheHits   int64
	Elapsed     time.Duration
}

// Option customises a driver.
type Option func(*options)

type options struct {
	metrics *metrics.Metrics
	clock   clock.PassiveClock
}

func defaultOptions() options {
	return options{
		clock: clock.RealClock{},
	}
}

// WithMetrics records evaluations, cache hits and generations into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock replaces the clock used to measure elapsed time.
func WithClock(c clock.PassiveClock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func newResult(population []framework.Candidate, generations int, cache *EvaluationCache, elapsed time.Duration) *Result {
	return &Result{
		Front:      framework.FrontSubsets(population),
		Population: population,
		Stats: Stats{
			Generations: generations,
			Evaluations: cache.Misses(),
			CacheHits:   cache.Hits(),
			Elapsed:     elapsed,
		},
	}
}
