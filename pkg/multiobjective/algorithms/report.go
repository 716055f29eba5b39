package algorithms

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/stat"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// shouldReport reports whether the given generation gets a progress report.
// The initial and final generations are always reported.
func shouldReport(generation, maxGenerations, frequency int) bool {
	if generation == 0 || generation == maxGenerations {
		return true
	}
	return frequency > 0 && generation%frequency == 0
}

// reportGeneration logs per-objective statistics of the population.
func reportGeneration(logger logr.Logger, generation int, population []framework.Candidate, objectives []string, cache *EvaluationCache) {
	if !logger.V(4).Enabled() {
		return
	}

	values := make([]float64, len(population))
	summary := make([]string, 0, len(objectives))
	for m, name := range objectives {
		for i := range population {
			values[i] = population[i].Objectives[m]
		}
		mean, std := stat.MeanStdDev(values, nil)
		summary = append(summary, fmt.Sprintf("%s=%.4f±%.4f", name, mean, std))
	}

	logger.V(4).Info("Generation report",
		"generation", generation,
		"population", len(population),
		"front", countFront(population),
		"objectives", strings.Join(summary, " "),
		"evaluations", humanize.Comma(cache.Misses()),
		"cacheHits", humanize.Comma(cache.Hits()))

	if logger.V(5).Enabled() {
		dumpPopulation(logger, generation, population)
	}
}

// dumpPopulation logs every candidate, one line per rank.
func dumpPopulation(logger logr.Logger, generation int, population []framework.Candidate) {
	byRank := map[int][]string{}
	maxRank := 0
	for i := range population {
		r := population[i].Rank
		byRank[r] = append(byRank[r], fmt.Sprint([]float64(population[i].Objectives)))
		maxRank = max(maxRank, r)
	}
	for r := 0; r <= maxRank; r++ {
		if len(byRank[r]) == 0 {
			continue
		}
		logger.V(5).Info("Population layer", "generation", generation, "rank", r, "members", strings.Join(byRank[r], " "))
	}
}
