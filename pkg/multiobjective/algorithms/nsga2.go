package algorithms

import (
	"context"
	"fmt"
	"math/rand/v2"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

const (
	Name = "NSGA-II"

	// pcgStream is the second PCG word shared by every random stream; the
	// streams differ by their seed.
	pcgStream = 0x9e3779b97f4a7c15
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}

// NSGAII runs the generational loop on the calling goroutine with a single
// random stream. Two runs with the same configuration and a deterministic
// evaluator produce the same front.
type NSGAII struct {
	config     NSGA2Config
	dataset    framework.Dataset
	objectives []string
	evaluator  framework.Evaluator
	operators  Operators
	options    options
}

var _ framework.Algorithm = &NSGAII{}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(config NSGA2Config, dataset framework.Dataset, objectives []string, evaluator framework.Evaluator, opts ...Option) (*NSGAII, error) {
	if errs := config.Validate(dataset, objectives); len(errs) > 0 {
		return nil, invalidConfig(errs)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: evaluator is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &NSGAII{
		config:     config,
		dataset:    dataset,
		objectives: objectives,
		evaluator:  evaluator,
		operators:  NewOperators(dataset, config),
		options:    o,
	}, nil
}

func (n *NSGAII) Name() string {
	return Name
}

// run holds the per-call state of a sequential search.
type run struct {
	*NSGAII
	rng   *rand.Rand
	cache *EvaluationCache
}

// Initialize creates a population of PopulationSize distinct chromosomes. The
// start set, when configured, is its first member.
func (r *run) Initialize() []framework.Candidate {
	seen := sets.New[string]()
	population := make([]framework.Candidate, 0, r.config.PopulationSize)
	add := func(c framework.Chromosome) {
		if c.IsEmpty() || seen.Has(c.Key()) {
			return
		}
		seen.Insert(c.Key())
		population = append(population, framework.NewCandidate(c))
	}

	if len(r.config.StartSet) > 0 {
		add(r.operators.StartChromosome(r.config.StartSet))
	}
	for len(population) < r.config.PopulationSize {
		add(r.operators.Initialize(r.rng))
	}
	return population
}

// Evaluate calculates the objective values of every candidate
func (r *run) Evaluate(ctx context.Context, population []framework.Candidate) error {
	for i := range population {
		if err := r.cache.EvaluateCandidate(ctx, r.evaluator, &population[i]); err != nil {
			return err
		}
	}
	return nil
}

// Offspring shuffles the population and varies consecutive pairs into
// PopulationSize new, unevaluated candidates.
func (r *run) Offspring(population []framework.Candidate) ([]framework.Candidate, error) {
	r.rng.Shuffle(len(population), func(i, j int) {
		population[i], population[j] = population[j], population[i]
	})

	offspring := make([]framework.Candidate, 0, len(population))
	for k := 0; k+1 < len(population); k += 2 {
		c0, c1, err := r.operators.Vary(r.rng, population[k].Chromosome, population[k+1].Chromosome)
		if err != nil {
			return nil, fmt.Errorf("varying parents %v and %v: %w",
				population[k].Chromosome.Indices(), population[k+1].Chromosome.Indices(), err)
		}
		offspring = append(offspring, framework.NewCandidate(c0), framework.NewCandidate(c1))
	}
	return offspring, nil
}

// Run executes the NSGA-II algorithm
func (n *NSGAII) Run(ctx context.Context) (*Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", n.Name())
	start := n.options.clock.Now()
	logger.V(2).Info("Starting search", "dataset", n.dataset.Name, "config", n.config.String())

	r := &run{
		NSGAII: n,
		rng:    newRand(n.config.Seed),
		cache:  NewEvaluationCache(n.objectives, n.options.metrics),
	}
	size := n.config.PopulationSize
	numObjectives := len(n.objectives)

	population := r.Initialize()
	if err := r.Evaluate(ctx, population); err != nil {
		return nil, err
	}
	population = survivors(population, size, numObjectives)
	reportGeneration(logger, 0, population, n.objectives, r.cache)

	for gen := 1; gen <= n.config.MaxGenerations; gen++ {
		offspring, err := r.Offspring(population)
		if err != nil {
			return nil, err
		}
		if err := r.Evaluate(ctx, offspring); err != nil {
			return nil, err
		}

		pool := append(offspring, population...)
		if n.config.RemoveDuplicates {
			pool = framework.Dedup(pool)
		}
		population = survivors(pool, size, numObjectives)

		n.options.metrics.ObserveGeneration(countFront(population))
		if shouldReport(gen, n.config.MaxGenerations, n.config.ReportFrequency) {
			reportGeneration(logger, gen, population, n.objectives, r.cache)
		}
	}

	result := newResult(population, n.config.MaxGenerations, r.cache, n.options.clock.Since(start))
	logger.V(2).Info("Search finished", "front", len(result.Front), "evaluations", result.Stats.Evaluations, "elapsed", result.Stats.Elapsed)
	return result, nil
}

func countFront(population []framework.Candidate) int {
	n := 0
	for i := range population {
		if population[i].Rank == 0 {
			n++
		}
	}
	return n
}
