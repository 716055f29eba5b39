package benchmarks

import (
	"context"
	"sync/atomic"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

const SubsetSizeName = "SubsetSize"

// SubsetSize scores a subset as [-|subset|, c, c, ...]: fewer features is
// better and every further objective is the same constant, so the front is
// made of the smallest subsets evaluated.
type SubsetSize struct {
	Constant float64

	// calls is shared with clones so tests can count every invocation.
	calls *atomic.Int64
}

var _ framework.CloneableEvaluator = &SubsetSize{}

func NewSubsetSize(constant float64) *SubsetSize {
	return &SubsetSize{
		Constant: constant,
		calls:    &atomic.Int64{},
	}
}

func (e *SubsetSize) Name() string {
	return SubsetSizeName
}

func (e *SubsetSize) Evaluate(_ context.Context, subset framework.Chromosome, objectives []string) (framework.ObjectiveVector, error) {
	e.calls.Add(1)
	values := make(framework.ObjectiveVector, len(objectives))
	for i := range values {
		values[i] = e.Constant
	}
	if len(values) > 0 {
		values[0] = -float64(subset.Count())
	}
	return values, nil
}

func (e *SubsetSize) Clone() (framework.Evaluator, error) {
	return &SubsetSize{
		Constant: e.Constant,
		calls:    e.calls,
	}, nil
}

// Calls returns the number of evaluations performed by e and its clones.
func (e *SubsetSize) Calls() int64 {
	return e.calls.Load()
}
