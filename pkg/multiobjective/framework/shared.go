package framework

// NonDominatedSort performs non-dominated sorting on the population. It
// returns the layers as indices into population and records the rank,
// domination count and dominated set of every candidate in place.
func NonDominatedSort(population []Candidate) [][]int {
	for i := range population {
		population[i].DominationCount = 0
		population[i].Dominated = population[i].Dominated[:0]
		population[i].Rank = RankUnset
		population[i].Distance = 0
	}

	// Calculate domination once per unordered pair
	for i := 0; i < len(population); i++ {
		for j := i + 1; j < len(population); j++ {
			switch {
			case Dominates(population[i], population[j]):
				population[i].Dominated = append(population[i].Dominated, j)
				population[j].DominationCount++
			case Dominates(population[j], population[i]):
				population[j].Dominated = append(population[j].Dominated, i)
				population[i].DominationCount++
			}
		}
	}

	// Find first front
	var fronts [][]int
	currentFront := []int{}
	for i := range population {
		if population[i].DominationCount == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, i)
		}
	}

	// Find subsequent fronts
	frontIndex := 0
	for len(currentFront) > 0 {
		fronts = append(fronts, currentFront)
		nextFront := []int{}
		for _, idx := range currentFront {
			for _, dominatedIdx := range population[idx].Dominated {
				population[dominatedIdx].DominationCount--
				if population[dominatedIdx].DominationCount == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		frontIndex++
		currentFront = nextFront
	}

	return fronts
}

// Dominates checks if candidate a dominates candidate b
func Dominates(a, b Candidate) bool {
	return a.Objectives.Dominates(b.Objectives)
}
