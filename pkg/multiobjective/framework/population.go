package framework

import (
	"fmt"
	"slices"
	"sort"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Dedup removes candidates carrying the same chromosome, keeping the first
// occurrence of every bit pattern. The result is ordered by Chromosome.Compare.
func Dedup(population []Candidate) []Candidate {
	ordered := make([]Candidate, len(population))
	copy(ordered, population)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Chromosome.Compare(ordered[j].Chromosome) < 0
	})

	unique := ordered[:0]
	for i := range ordered {
		if len(unique) > 0 && unique[len(unique)-1].Chromosome.Equal(ordered[i].Chromosome) {
			continue
		}
		unique = append(unique, ordered[i])
	}
	return unique
}

// MustBeSelectable panics when a candidate is not fit to enter a domination
// sort: an empty chromosome or an objective vector of the wrong length.
func MustBeSelectable(population []Candidate, numObjectives int) {
	for i := range population {
		if population[i].Chromosome.IsEmpty() {
			panic(fmt.Sprintf("candidate %d has an empty chromosome", i))
		}
		if len(population[i].Objectives) != numObjectives {
			panic(fmt.Sprintf("candidate %d has %d objectives, want %d",
				i, len(population[i].Objectives), numObjectives))
		}
	}
}

// FrontSubsets extracts the feature subsets of every rank 0 candidate,
// without duplicates, ordered by length and then lexicographically.
func FrontSubsets(population []Candidate) [][]int {
	seen := sets.New[string]()
	var front [][]int
	for i := range population {
		if population[i].Rank != 0 {
			continue
		}
		key := population[i].Chromosome.Key()
		if seen.Has(key) {
			continue
		}
		seen.Insert(key)
		front = append(front, population[i].Chromosome.Indices())
	}

	slices.SortFunc(front, CompareSubsets)
	return front
}

// CompareSubsets orders index lists by length first, then element by element.
func CompareSubsets(a, b []int) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}
