// Command mofes runs a multi-objective feature subset search over a synthetic
// benchmark and prints the resulting front as YAML.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/mofes/featureselection/apis/featureselection/v1alpha1"
	"github.com/mofes/featureselection/pkg/multiobjective"
	"github.com/mofes/featureselection/pkg/multiobjective/algorithms"
	"github.com/mofes/featureselection/pkg/multiobjective/benchmarks"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
	"github.com/mofes/featureselection/pkg/multiobjective/metrics"
	"github.com/mofes/featureselection/pkg/multiobjective/util"
)

type options struct {
	configPath  string
	outputPath  string
	plotPath    string
	metricsPath string

	benchmark   string
	features    int32
	classIndex  int32
	population  int32
	generations int32
	seed        int64
	parallel    bool
	workers     int32
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "Path to a SearchConfiguration file. Flags override its fields.")
	fs.StringVarP(&o.outputPath, "output", "o", "-", "Where to write the SearchResult, - for stdout.")
	fs.StringVar(&o.plotPath, "plot", "", "Write an HTML scatter plot of the front to this path. Needs exactly two objectives.")
	fs.StringVar(&o.metricsPath, "metrics", "", "Write the search metrics in the Prometheus text format to this path.")

	fs.StringVar(&o.benchmark, "benchmark", "", fmt.Sprintf("Synthetic evaluator, one of %v.", multiobjective.Benchmarks()))
	fs.Int32Var(&o.features, "features", 0, "Number of attributes, the class attribute included.")
	fs.Int32Var(&o.classIndex, "class-index", 0, "Index of the class attribute, -1 for none. Defaults to the last attribute.")
	fs.Int32VarP(&o.population, "population", "p", 0, "Population size.")
	fs.Int32VarP(&o.generations, "generations", "g", 0, "Number of generations.")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed.")
	fs.BoolVar(&o.parallel, "parallel", false, "Run the search on a pool of workers.")
	fs.Int32Var(&o.workers, "workers", 0, "Size of the worker pool, 0 for one worker per CPU.")
}

// apply copies the flags set on the command line into obj.
func (o *options) apply(fs *pflag.FlagSet, obj *v1alpha1.SearchConfiguration) {
	if fs.Changed("benchmark") {
		obj.Benchmark = o.benchmark
	}
	if fs.Changed("features") {
		obj.Dataset.NumAttributes = o.features
	}
	if fs.Changed("class-index") {
		obj.Dataset.ClassIndex = ptr.To(o.classIndex)
	}
	if fs.Changed("population") {
		obj.PopulationSize = ptr.To(o.population)
	}
	if fs.Changed("generations") {
		obj.MaxGenerations = ptr.To(o.generations)
	}
	if fs.Changed("seed") {
		obj.Seed = ptr.To(o.seed)
	}
	if fs.Changed("parallel") {
		obj.Parallel = ptr.To(o.parallel)
	}
	if fs.Changed("workers") {
		obj.Workers = ptr.To(o.workers)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		klog.ErrorS(err, "Search failed")
		klog.FlushAndExit(klog.ExitFlushTimeout, 1)
	}
	klog.Flush()
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o := &options{}
	fs := pflag.NewFlagSet("mofes", pflag.ContinueOnError)
	o.addFlags(fs)
	goFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(goFlags)
	fs.AddGoFlagSet(goFlags)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Flags win over the file, defaults fill in the rest
	apply := func(obj *v1alpha1.SearchConfiguration) { o.apply(fs, obj) }
	var obj *v1alpha1.SearchConfiguration
	var err error
	if o.configPath != "" {
		obj, err = v1alpha1.LoadSearchConfigurationFile(o.configPath, apply)
	} else {
		obj, err = v1alpha1.LoadSearchConfiguration(nil, apply)
	}
	if err != nil {
		return err
	}

	dataset := v1alpha1.ToDataset(&obj.Dataset)
	config := v1alpha1.ToNSGA2Config(obj)
	evaluator, err := multiobjective.NewBenchmark(obj.Benchmark, dataset, *obj.BenchmarkSeed)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	searcher, err := multiobjective.NewSearcher(evaluator, dataset, obj.Objectives, config, algorithms.WithMetrics(metrics.New(reg)))
	if err != nil {
		return err
	}

	logger := klog.FromContext(ctx)
	result, err := searcher.Run(klog.NewContext(ctx, logger.WithValues("dataset", dataset.Name)))
	if err != nil {
		return err
	}
	logger.Info("Search finished",
		"algorithm", searcher.Name(),
		"front", len(result.Front),
		"evaluations", humanize.Comma(result.Stats.Evaluations),
		"cacheHits", humanize.Comma(result.Stats.CacheHits),
		"elapsed", result.Stats.Elapsed)

	if err := writeResult(o.outputPath, stdout, v1alpha1.NewSearchResult(searcher.Name(), dataset.Name, obj.Objectives, result)); err != nil {
		return err
	}
	if o.plotPath != "" {
		if err := writePlot(o.plotPath, searcher.Name(), obj.Objectives, evaluator, result); err != nil {
			return err
		}
	}
	if o.metricsPath != "" {
		if err := prometheus.WriteToTextfile(o.metricsPath, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func writeResult(path string, stdout io.Writer, result *v1alpha1.SearchResult) error {
	data, err := v1alpha1.MarshalSearchResult(result)
	if err != nil {
		return err
	}
	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writePlot(path, algorithmName string, objectives []string, evaluator framework.Evaluator, result *algorithms.Result) error {
	var reference []framework.ObjectiveVector
	if problem, ok := evaluator.(*benchmarks.Relevance); ok {
		var err error
		if reference, err = problem.TrueParetoFront(objectives); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := util.PlotResults(f, algorithmName, objectives, util.FrontObjectives(result.Population), reference); err != nil {
		return fmt.Errorf("plotting front: %w", err)
	}
	return f.Close()
}
