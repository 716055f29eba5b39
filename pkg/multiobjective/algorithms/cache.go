package algorithms

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
	"github.com/mofes/featureselection/pkg/multiobjective/metrics"
)

// EvaluationCache memoises objective vectors by exact chromosome bit pattern
// for the lifetime of one search. It is safe for concurrent use. Two callers
// missing on the same chromosome at once both evaluate it; the first stored
// value wins and is returned to both.
type EvaluationCache struct {
	store      *cache.Cache
	objectives []string
	metrics    *metrics.Metrics

	hits   atomic.Int64
	misses atomic.Int64
}

func NewEvaluationCache(objectives []string, m *metrics.Metrics) *EvaluationCache {
	return &EvaluationCache{
		store:      cache.New(cache.NoExpiration, 0),
		objectives: objectives,
		metrics:    m,
	}
}

// Evaluate returns the objective vector of the chromosome, invoking the
// evaluator only when the bit pattern was never seen before.
func (c *EvaluationCache) Evaluate(ctx context.Context, evaluator framework.Evaluator, chromosome framework.Chromosome) (framework.ObjectiveVector, error) {
	key := chromosome.Key()
	if stored, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		c.metrics.ObserveCacheHit()
		return stored.(framework.ObjectiveVector).Clone(), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.misses.Add(1)
	c.metrics.ObserveEvaluation()
	values, err := evaluator.Evaluate(ctx, chromosome, c.objectives)
	if err != nil {
		return nil, fmt.Errorf("evaluating subset %v: %w", chromosome.Indices(), err)
	}
	if len(values) != len(c.objectives) {
		return nil, fmt.Errorf("evaluating subset %v: got %d objective values, want %d",
			chromosome.Indices(), len(values), len(c.objectives))
	}

	// Add refuses to overwrite, so a concurrent miss on the same key keeps
	// the first value.
	if err := c.store.Add(key, values.Clone(), cache.NoExpiration); err != nil {
		if stored, ok := c.store.Get(key); ok {
			first := stored.(framework.ObjectiveVector)
			if !first.Equal(values) {
				klog.FromContext(ctx).V(2).Info("Evaluator is not deterministic, keeping the first result",
					"subset", chromosome.Indices(), "first", first, "discarded", values)
			}
			return first.Clone(), nil
		}
	}
	return values.Clone(), nil
}

// EvaluateCandidate fills in the objectives of the candidate.
func (c *EvaluationCache) EvaluateCandidate(ctx context.Context, evaluator framework.Evaluator, candidate *framework.Candidate) error {
	values, err := c.Evaluate(ctx, evaluator, candidate.Chromosome)
	if err != nil {
		return err
	}
	candidate.Objectives = values
	return nil
}

// Len returns the number of distinct chromosomes stored.
func (c *EvaluationCache) Len() int {
	return c.store.ItemCount()
}

// Hits returns how many evaluations were answered from the cache.
func (c *EvaluationCache) Hits() int64 {
	return c.hits.Load()
}

// Misses returns how many times the evaluator was invoked.
func (c *EvaluationCache) Misses() int64 {
	return c.misses.Load()
}
