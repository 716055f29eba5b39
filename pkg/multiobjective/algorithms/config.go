package algorithms

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

var (
	// ErrInvalidConfig is returned when a search is constructed with a
	// configuration it cannot run with.
	ErrInvalidConfig = errors.New("invalid search configuration")
	// ErrNotCloneable is returned by the parallel driver when the evaluator
	// cannot produce independent copies for its workers.
	ErrNotCloneable = errors.New("evaluator does not support cloning")
)

// NSGA2Config holds the tunables of a search.
type NSGA2Config struct {
	// PopulationSize is the nominal number of candidates, must be even.
	PopulationSize int
	// MaxGenerations is the number of generations run after initialisation.
	MaxGenerations int
	// CrossoverProbability is the chance a parent pair exchanges a prefix.
	CrossoverProbability float64
	// MutationProbability is the per-bit flip chance of an offspring.
	MutationProbability float64
	Seed                int64
	// Workers is the size of the parallel worker pool. Zero means one worker
	// per CPU. Ignored by the sequential driver.
	Workers int
	// Parallel selects the worker pool driver.
	Parallel bool
	// RemoveDuplicates drops candidates with identical chromosomes from the
	// merged parent and offspring pool before selection.
	RemoveDuplicates bool
	// StartSet, when set, becomes one member of the initial population.
	StartSet []int
	// ReportFrequency is the number of generations between two progress
	// reports. Zero means only the initial and final generations are reported.
	ReportFrequency int
}

// DefaultNSGA2Config returns the configuration used when nothing is tuned.
func DefaultNSGA2Config() NSGA2Config {
	return NSGA2Config{
		PopulationSize:       80,
		MaxGenerations:       10,
		CrossoverProbability: 1.0,
		MutationProbability:  0.033,
		Seed:                 1,
		RemoveDuplicates:     true,
		ReportFrequency:      10,
	}
}

func (c NSGA2Config) String() string {
	var sb strings.Builder
	start := "no attributes"
	if len(c.StartSet) > 0 {
		start = fmt.Sprint(c.StartSet)
	}
	fmt.Fprintf(&sb, "start set: %s, ", start)
	fmt.Fprintf(&sb, "population size: %d, ", c.PopulationSize)
	fmt.Fprintf(&sb, "generations: %d, ", c.MaxGenerations)
	fmt.Fprintf(&sb, "crossover probability: %.3f, ", c.CrossoverProbability)
	fmt.Fprintf(&sb, "mutation probability: %.3f, ", c.MutationProbability)
	fmt.Fprintf(&sb, "report frequency: %d, ", c.ReportFrequency)
	fmt.Fprintf(&sb, "seed: %d", c.Seed)
	if c.Parallel {
		fmt.Fprintf(&sb, ", workers: %d", c.Workers)
	}
	return sb.String()
}

// Validate checks the configuration against the dataset and objectives it is
// going to be used with.
func (c NSGA2Config) Validate(dataset framework.Dataset, objectives []string) field.ErrorList {
	var errs field.ErrorList
	root := field.NewPath("config")

	if c.PopulationSize < 2 || c.PopulationSize%2 != 0 {
		errs = append(errs, field.Invalid(root.Child("populationSize"), c.PopulationSize, "must be an even number greater than or equal to 2"))
	}
	if c.MaxGenerations < 0 {
		errs = append(errs, field.Invalid(root.Child("maxGenerations"), c.MaxGenerations, "must be greater than or equal to 0"))
	}
	if !isProbability(c.CrossoverProbability) {
		errs = append(errs, field.Invalid(root.Child("crossoverProbability"), c.CrossoverProbability, "must be in [0, 1]"))
	}
	if !isProbability(c.MutationProbability) {
		errs = append(errs, field.Invalid(root.Child("mutationProbability"), c.MutationProbability, "must be in [0, 1]"))
	}
	if c.Workers < 0 {
		errs = append(errs, field.Invalid(root.Child("workers"), c.Workers, "must be greater than or equal to 0"))
	}
	if c.ReportFrequency < 0 {
		errs = append(errs, field.Invalid(root.Child("reportFrequency"), c.ReportFrequency, "must be greater than or equal to 0"))
	}

	if len(objectives) == 0 {
		errs = append(errs, field.Required(field.NewPath("objectives"), "at least one objective is needed"))
	}

	errs = append(errs, validateDataset(dataset, c.PopulationSize)...)

	startPath := root.Child("startSet")
	selectable := 0
	for i, idx := range c.StartSet {
		switch {
		case idx < 0 || idx >= dataset.NumAttributes:
			errs = append(errs, field.Invalid(startPath.Index(i), idx, "not a valid attribute index"))
		case dataset.HasClass() && idx == dataset.ClassIndex:
			errs = append(errs, field.Invalid(startPath.Index(i), idx, "the class attribute cannot be selected"))
		default:
			selectable++
		}
	}
	if len(c.StartSet) > 0 && selectable == 0 {
		errs = append(errs, field.Invalid(startPath, c.StartSet, "must select at least one feature"))
	}

	return errs
}

func isProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

func validateDataset(dataset framework.Dataset, populationSize int) field.ErrorList {
	var errs field.ErrorList
	path := field.NewPath("dataset")

	if dataset.NumAttributes < 1 {
		return append(errs, field.Invalid(path.Child("numAttributes"), dataset.NumAttributes, "must be greater than 0"))
	}
	if dataset.ClassIndex < -1 || dataset.ClassIndex >= dataset.NumAttributes {
		return append(errs, field.Invalid(path.Child("classIndex"), dataset.ClassIndex, "must be -1 or a valid attribute index"))
	}
	selectable := dataset.SelectableFeatures()
	if selectable < 1 {
		return append(errs, field.Invalid(path.Child("numAttributes"), dataset.NumAttributes, "must leave at least one selectable feature"))
	}
	if populationSize > 0 {
		if reachable := reachableSubsets(selectable, maxInitialBits(dataset.NumAttributes), populationSize); reachable < populationSize {
			errs = append(errs, field.Invalid(path.Child("numAttributes"), dataset.NumAttributes,
				fmt.Sprintf("random initialisation can only produce %d distinct subsets, fewer than the population size", reachable)))
		}
	}
	return errs
}

// maxInitialBits is the largest bit count Operators.Initialize may request.
func maxInitialBits(numAttributes int) int {
	return max(1, numAttributes-2)
}

// reachableSubsets counts the distinct non-empty subsets with at most maxBits
// of the selectable features. Counting stops as soon as limit is reached.
func reachableSubsets(selectable, maxBits, limit int) int {
	total := 0
	binom := 1
	for k := 1; k <= min(selectable, maxBits); k++ {
		// binom = C(selectable, k), computed incrementally
		binom = binom * (selectable - k + 1) / k
		total += binom
		if total >= limit {
			return total
		}
	}
	return total
}

func invalidConfig(errs field.ErrorList) error {
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errs.ToAggregate())
}
