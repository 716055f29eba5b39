package multiobjective

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/mofes/featureselection/pkg/multiobjective/algorithms"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// Searcher is a configured search ready to run.
type Searcher interface {
	framework.Algorithm
	Run(ctx context.Context) (*algorithms.Result, error)
}

var (
	_ Searcher = &algorithms.NSGAII{}
	_ Searcher = &algorithms.ParallelNSGAII{}
)

// NewSearcher picks the parallel driver when config.Parallel is set and the
// sequential one otherwise.
func NewSearcher(evaluator framework.Evaluator, dataset framework.Dataset, objectives []string, config algorithms.NSGA2Config, opts ...algorithms.Option) (Searcher, error) {
	if config.Parallel {
		p, err := algorithms.NewParallelNSGAII(config, dataset, objectives, evaluator, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	s, err := algorithms.NewNSGAII(config, dataset, objectives, evaluator, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Search runs one search and returns the feature subsets of the final front,
// ordered by length and then lexicographically.
func Search(ctx context.Context, evaluator framework.Evaluator, dataset framework.Dataset, objectives []string, config algorithms.NSGA2Config, opts ...algorithms.Option) ([][]int, error) {
	result, err := SearchWithResult(ctx, evaluator, dataset, objectives, config, opts...)
	if err != nil {
		return nil, err
	}
	return result.Front, nil
}

// SearchWithResult is Search, also returning the final population and the
// statistics of the run.
func SearchWithResult(ctx context.Context, evaluator framework.Evaluator, dataset framework.Dataset, objectives []string, config algorithms.NSGA2Config, opts ...algorithms.Option) (*algorithms.Result, error) {
	searcher, err := NewSearcher(evaluator, dataset, objectives, config, opts...)
	if err != nil {
		return nil, err
	}

	logger := klog.FromContext(ctx)
	logger.V(5).Info("created searcher", "algorithm", searcher.Name(), "objectives", objectives)

	return searcher.Run(klog.NewContext(ctx, logger.WithValues("dataset", dataset.Name)))
}
