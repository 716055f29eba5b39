package algorithms

import (
	"sort"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// CrowdingDistance calculates the crowding distance of the candidates of a
// front, given as indices into population. For every objective the front is
// sorted ascending and each interior member accumulates the gap between its
// two neighbours. Boundary members get no extra distance.
func CrowdingDistance(population []framework.Candidate, front []int) {
	for _, idx := range front {
		population[idx].Distance = 0
	}
	if len(front) < 3 {
		return
	}

	numObjectives := len(population[front[0]].Objectives)
	sorted := make([]int, len(front))
	copy(sorted, front)
	for m := 0; m < numObjectives; m++ {
		// Sort by each objective
		sort.SliceStable(sorted, func(i, j int) bool {
			return population[sorted[i]].Objectives[m] < population[sorted[j]].Objectives[m]
		})

		// Calculate distance for intermediate points
		for i := 1; i < len(sorted)-1; i++ {
			population[sorted[i]].Distance += population[sorted[i+1]].Objectives[m] - population[sorted[i-1]].Objectives[m]
		}
	}
}

// Select builds the next generation of exactly size candidates (or all of
// them when there are fewer). Whole fronts are copied while they fit; the
// first front that does not fit is truncated by descending crowding distance.
// Every selected candidate is a fresh clone that keeps its rank.
func Select(population []framework.Candidate, fronts [][]int, size int) []framework.Candidate {
	next := make([]framework.Candidate, 0, size)
	for _, front := range fronts {
		if len(next) == size {
			break
		}
		if len(next)+len(front) <= size {
			for _, idx := range front {
				next = append(next, population[idx].Clone())
			}
			continue
		}

		CrowdingDistance(population, front)
		boundary := make([]int, len(front))
		copy(boundary, front)
		sort.SliceStable(boundary, func(i, j int) bool {
			return population[boundary[i]].Distance > population[boundary[j]].Distance
		})
		for _, idx := range boundary[:size-len(next)] {
			next = append(next, population[idx].Clone())
		}
		break
	}
	return next
}

// survivors ranks the pool and prunes it back to size.
func survivors(pool []framework.Candidate, size, numObjectives int) []framework.Candidate {
	framework.MustBeSelectable(pool, numObjectives)
	fronts := framework.NonDominatedSort(pool)
	return Select(pool, fronts, size)
}
