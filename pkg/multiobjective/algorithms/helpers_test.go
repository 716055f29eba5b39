package algorithms

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mofes/featureselection/pkg/multiobjective/benchmarks"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

var errBoom = errors.New("boom")

// recordingEvaluator scores like benchmarks.SubsetSize and remembers every
// subset it was asked about.
type recordingEvaluator struct {
	inner *benchmarks.SubsetSize

	mu        *sync.Mutex
	evaluated *[][]int
}

func newRecordingEvaluator() *recordingEvaluator {
	return &recordingEvaluator{
		inner:     benchmarks.NewSubsetSize(1),
		mu:        &sync.Mutex{},
		evaluated: &[][]int{},
	}
}

func (e *recordingEvaluator) Evaluate(ctx context.Context, subset framework.Chromosome, objectives []string) (framework.ObjectiveVector, error) {
	e.mu.Lock()
	*e.evaluated = append(*e.evaluated, subset.Indices())
	e.mu.Unlock()
	return e.inner.Evaluate(ctx, subset, objectives)
}

func (e *recordingEvaluator) Clone() (framework.Evaluator, error) {
	return e, nil
}

func (e *recordingEvaluator) subsets() [][]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]int(nil), *e.evaluated...)
}

// failingEvaluator succeeds failAfter times, then fails every call. Clones
// share the budget.
type failingEvaluator struct {
	calls     *atomic.Int64
	failAfter int64
	panics    bool
}

func newFailingEvaluator(failAfter int64, panics bool) *failingEvaluator {
	return &failingEvaluator{
		calls:     &atomic.Int64{},
		failAfter: failAfter,
		panics:    panics,
	}
}

func (e *failingEvaluator) Evaluate(_ context.Context, subset framework.Chromosome, objectives []string) (framework.ObjectiveVector, error) {
	if e.calls.Add(1) > e.failAfter {
		if e.panics {
			panic("evaluator exploded")
		}
		return nil, errBoom
	}
	values := make(framework.ObjectiveVector, len(objectives))
	values[0] = -float64(subset.Count())
	return values, nil
}

func (e *failingEvaluator) Clone() (framework.Evaluator, error) {
	return e, nil
}

// plainEvaluator cannot be cloned.
type plainEvaluator struct{}

func (plainEvaluator) Evaluate(_ context.Context, subset framework.Chromosome, objectives []string) (framework.ObjectiveVector, error) {
	return make(framework.ObjectiveVector, len(objectives)), nil
}

func minLength(subsets [][]int) int {
	m := -1
	for _, s := range subsets {
		if m < 0 || len(s) < m {
			m = len(s)
		}
	}
	return m
}

// symmetricDifference counts the indices present in exactly one of two
// sorted index lists.
func symmetricDifference(a, b []int) int {
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			n++
			i++
		default:
			n++
			j++
		}
	}
	return n + len(a) - i + len(b) - j
}

// assertSingleFlips checks that every subset evaluated after the first
// initial ones differs from an earlier evaluated subset by exactly one index.
func assertSingleFlips(t *testing.T, evaluated [][]int, initial int) {
	t.Helper()
	for k := initial; k < len(evaluated); k++ {
		found := false
		for _, earlier := range evaluated[:k] {
			if symmetricDifference(earlier, evaluated[k]) == 1 {
				found = true
				break
			}
		}
		assert.True(t, found, "subset %v is not a single flip of an earlier subset", evaluated[k])
	}
}

// noDedupConfig keeps duplicates and disables crossover and mutation, so
// the only new subsets after initialisation come from self pairs.
func noDedupConfig() NSGA2Config {
	config := DefaultNSGA2Config()
	config.PopulationSize = 20
	config.MaxGenerations = 30
	config.CrossoverProbability = 0
	config.MutationProbability = 0
	config.RemoveDuplicates = false
	config.Seed = 5
	return config
}
