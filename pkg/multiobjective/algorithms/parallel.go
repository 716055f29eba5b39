package algorithms

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

const ParallelName = "NSGA-II-P"

// ParallelNSGAII runs the same generational loop as NSGAII, but initialises
// the population and varies and evaluates offspring on a pool of workers.
// Each worker owns a random stream seeded with Seed plus its index and its own
// evaluator clone. Work is split between workers by position only, so a
// fixed seed, worker count and deterministic evaluator reproduce the front.
type ParallelNSGAII struct {
	config     NSGA2Config
	dataset    framework.Dataset
	objectives []string
	evaluator  framework.CloneableEvaluator
	operators  Operators
	workers    int
	options    options
}

var _ framework.Algorithm = &ParallelNSGAII{}

func NewParallelNSGAII(config NSGA2Config, dataset framework.Dataset, objectives []string, evaluator framework.Evaluator, opts ...Option) (*ParallelNSGAII, error) {
	if errs := config.Validate(dataset, objectives); len(errs) > 0 {
		return nil, invalidConfig(errs)
	}
	cloneable, ok := evaluator.(framework.CloneableEvaluator)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotCloneable, evaluator)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	workers := config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return &ParallelNSGAII{
		config:     config,
		dataset:    dataset,
		objectives: objectives,
		evaluator:  cloneable,
		operators:  NewOperators(dataset, config),
		workers:    workers,
		options:    o,
	}, nil
}

func (p *ParallelNSGAII) Name() string {
	return ParallelName
}

// Workers returns the size of the worker pool.
func (p *ParallelNSGAII) Workers() int {
	return p.workers
}

// pairTask is a parent pair to be replaced in place by its offspring.
type pairTask struct {
	a, b *framework.Candidate
}

type worker struct {
	id        int
	rng       *rand.Rand
	evaluator framework.Evaluator
	operators Operators
	cache     *EvaluationCache
	logger    logr.Logger
}

func (p *ParallelNSGAII) newWorkers(logger logr.Logger, cache *EvaluationCache) ([]*worker, error) {
	workers := make([]*worker, p.workers)
	for i := range workers {
		var evaluator framework.Evaluator = p.evaluator
		if i > 0 {
			clone, err := p.evaluator.Clone()
			if err != nil {
				return nil, fmt.Errorf("cloning evaluator for worker %d: %w", i, err)
			}
			evaluator = clone
		}
		workers[i] = &worker{
			id:        i,
			rng:       newRand(p.config.Seed + int64(i)),
			evaluator: evaluator,
			operators: p.operators,
			cache:     cache,
			logger:    logger.WithValues("worker", i),
		}
	}
	return workers, nil
}

// guard turns a panic of a worker into an error for the errgroup.
func guard(id int, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("worker %d panicked: %v", id, r)
			}
		}()
		return fn()
	}
}

// initSet collects distinct initial candidates. Only the coordinator
// touches it, merging worker batches in worker order.
type initSet struct {
	seen    sets.Set[string]
	members []framework.Candidate
}

func newInitSet() *initSet {
	return &initSet{seen: sets.New[string]()}
}

// add inserts the candidate unless its chromosome is already present.
func (s *initSet) add(c framework.Candidate) {
	key := c.Chromosome.Key()
	if s.seen.Has(key) {
		return
	}
	s.seen.Insert(key)
	s.members = append(s.members, c)
}

// initialize generates and evaluates a batch of quota random candidates.
func (w *worker) initialize(ctx context.Context, quota int) ([]framework.Candidate, error) {
	batch := make([]framework.Candidate, 0, quota)
	for len(batch) < quota {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := framework.NewCandidate(w.operators.Initialize(w.rng))
		if err := w.cache.EvaluateCandidate(ctx, w.evaluator, &c); err != nil {
			return nil, err
		}
		batch = append(batch, c)
	}
	w.logger.V(5).Info("Worker generated initial candidates", "count", len(batch))
	return batch, nil
}

// serve processes parent pairs until the queue is closed or ctx is done.
func (w *worker) serve(ctx context.Context, queue <-chan pairTask, done func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case task, ok := <-queue:
			if !ok {
				return nil
			}
			if err := w.vary(ctx, task); err != nil {
				return fmt.Errorf("worker %d: %w", w.id, err)
			}
			done()
		}
	}
}

func (w *worker) vary(ctx context.Context, task pairTask) error {
	c0, c1, err := w.operators.Vary(w.rng, task.a.Chromosome, task.b.Chromosome)
	if err != nil {
		return fmt.Errorf("varying parents %v and %v: %w",
			task.a.Chromosome.Indices(), task.b.Chromosome.Indices(), err)
	}
	*task.a = framework.NewCandidate(c0)
	*task.b = framework.NewCandidate(c1)
	if err := w.cache.EvaluateCandidate(ctx, w.evaluator, task.a); err != nil {
		return err
	}
	return w.cache.EvaluateCandidate(ctx, w.evaluator, task.b)
}

// initialize builds the initial population in rounds. Each round every
// worker generates an equal share of the missing candidates; the batches are
// merged in worker order, so the outcome does not depend on timing. The last
// round may overshoot PopulationSize by less than the number of workers.
func (p *ParallelNSGAII) initialize(ctx context.Context, workers []*worker, cache *EvaluationCache) ([]framework.Candidate, error) {
	set := newInitSet()
	if len(p.config.StartSet) > 0 {
		c := framework.NewCandidate(p.operators.StartChromosome(p.config.StartSet))
		if err := cache.EvaluateCandidate(ctx, workers[0].evaluator, &c); err != nil {
			return nil, err
		}
		set.add(c)
	}

	for len(set.members) < p.config.PopulationSize {
		missing := p.config.PopulationSize - len(set.members)
		quota := (missing + len(workers) - 1) / len(workers)

		batches := make([][]framework.Candidate, len(workers))
		g, gctx := errgroup.WithContext(ctx)
		for i, w := range workers {
			g.Go(guard(w.id, func() error {
				batch, err := w.initialize(gctx, quota)
				batches[i] = batch
				return err
			}))
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, batch := range batches {
			for _, c := range batch {
				set.add(c)
			}
		}
	}
	return set.members, nil
}

// Run executes the NSGA-II algorithm on the worker pool. The pool lives for
// the duration of the call and is shut down before returning. The first
// worker failure aborts the search and is returned.
func (p *ParallelNSGAII) Run(ctx context.Context) (*Result, error) {
	logger := klog.FromContext(ctx).WithValues("algorithm", p.Name())
	start := p.options.clock.Now()
	logger.V(2).Info("Starting search", "dataset", p.dataset.Name, "config", p.config.String(), "workers", p.workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := p.config.PopulationSize
	numObjectives := len(p.objectives)
	cache := NewEvaluationCache(p.objectives, p.options.metrics)
	workers, err := p.newWorkers(logger, cache)
	if err != nil {
		return nil, err
	}

	population, err := p.initialize(ctx, workers, cache)
	if err != nil {
		return nil, err
	}
	logger.V(4).Info("Initial population ready", "candidates", len(population))
	population = survivors(population, size, numObjectives)
	reportGeneration(logger, 0, population, p.objectives, cache)

	if p.config.MaxGenerations > 0 {
		population, err = p.evolve(ctx, logger, workers, population)
		if err != nil {
			return nil, err
		}
	}

	result := newResult(population, p.config.MaxGenerations, cache, p.options.clock.Since(start))
	logger.V(2).Info("Search finished", "front", len(result.Front), "evaluations", result.Stats.Evaluations, "elapsed", result.Stats.Elapsed)
	return result, nil
}

// evolve runs every generation, handing parent pairs to the workers through
// their queues and waiting until all offspring are evaluated.
func (p *ParallelNSGAII) evolve(ctx context.Context, logger logr.Logger, workers []*worker, population []framework.Candidate) ([]framework.Candidate, error) {
	size := p.config.PopulationSize
	numObjectives := len(p.objectives)
	cache := workers[0].cache

	// Pair k always goes to worker k mod len(workers), so every worker
	// consumes its random stream in the same order on every run.
	queues := make([]chan pairTask, len(workers))
	for i := range queues {
		queues[i] = make(chan pairTask, size/2)
	}
	ready := make(chan struct{}, 1)
	var completed, target atomic.Int64
	done := func() {
		if completed.Add(2) == target.Load() {
			ready <- struct{}{}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range workers {
		g.Go(guard(w.id, func() error {
			return w.serve(gctx, queues[i], done)
		}))
	}
	shutdown := func() error {
		for _, queue := range queues {
			close(queue)
		}
		return g.Wait()
	}

	rng := newRand(p.config.Seed + int64(len(workers)))
	for gen := 1; gen <= p.config.MaxGenerations; gen++ {
		offspring := make([]framework.Candidate, len(population))
		for i := range population {
			offspring[i] = population[i].Clone()
		}
		rng.Shuffle(len(offspring), func(i, j int) {
			offspring[i], offspring[j] = offspring[j], offspring[i]
		})

		completed.Store(0)
		target.Store(int64(len(offspring) / 2 * 2))
		for k := 0; k+1 < len(offspring); k += 2 {
			queues[(k/2)%len(queues)] <- pairTask{a: &offspring[k], b: &offspring[k+1]}
		}

		select {
		case <-ready:
		case <-gctx.Done():
			if err := shutdown(); err != nil {
				return nil, err
			}
			return nil, ctx.Err()
		}

		pool := make([]framework.Candidate, 0, len(population)+len(offspring))
		pool = append(pool, population...)
		pool = append(pool, offspring...)
		if p.config.RemoveDuplicates {
			pool = framework.Dedup(pool)
		}
		population = survivors(pool, size, numObjectives)

		p.options.metrics.ObserveGeneration(countFront(population))
		if shouldReport(gen, p.config.MaxGenerations, p.config.ReportFrequency) {
			reportGeneration(logger, gen, population, p.objectives, cache)
		}
	}

	if err := shutdown(); err != nil {
		return nil, err
	}
	return population, nil
}
