package multiobjective

import (
	"fmt"
	"strings"

	"github.com/mofes/featureselection/pkg/multiobjective/benchmarks"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// NewBenchmark returns the synthetic evaluator registered under name. seed
// only affects benchmarks with hidden random parameters.
func NewBenchmark(name string, dataset framework.Dataset, seed uint64) (framework.CloneableEvaluator, error) {
	switch strings.ToLower(name) {
	case strings.ToLower(benchmarks.Name):
		return benchmarks.NewRelevance(dataset.NumAttributes, dataset.ClassIndex, seed), nil
	case strings.ToLower(benchmarks.SubsetSizeName):
		return benchmarks.NewSubsetSize(1), nil
	default:
		return nil, fmt.Errorf("unknown benchmark %q, want one of %v", name, Benchmarks())
	}
}

// Benchmarks lists the names accepted by NewBenchmark.
func Benchmarks() []string {
	return []string{benchmarks.Name, benchmarks.SubsetSizeName}
}
