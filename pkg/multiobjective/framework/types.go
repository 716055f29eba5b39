package framework

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// RankUnset marks a candidate that has not been through a domination sort yet.
const RankUnset = -1

// ObjectiveVector represents a point in the objective space, one value per
// optimisation criterion. Every dimension is maximised.
type ObjectiveVector []float64

func (v ObjectiveVector) Clone() ObjectiveVector {
	if v == nil {
		return nil
	}
	out := make(ObjectiveVector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether both vectors hold exactly the same values.
func (v ObjectiveVector) Equal(other ObjectiveVector) bool {
	return len(v) == len(other) && floats.Equal(v, other)
}

// Dominates reports whether v is at least as good as other in every objective
// and strictly better in at least one.
func (v ObjectiveVector) Dominates(other ObjectiveVector) bool {
	better := false
	for i := range v {
		if v[i] < other[i] {
			return false
		}
		if v[i] > other[i] {
			better = true
		}
	}
	return better
}

// Candidate represents a solution in the population
type Candidate struct {
	Chromosome Chromosome
	Objectives ObjectiveVector

	// DominationCount is the number of candidates dominating this one.
	DominationCount int
	// Dominated holds the population indices of the candidates this one
	// dominates. It is only meaningful right after NonDominatedSort.
	Dominated []int
	// Rank is the index of the non-dominated layer, 0 being the best.
	Rank int
	// Distance is the crowding distance inside the boundary layer.
	Distance float64
}

func NewCandidate(c Chromosome) Candidate {
	return Candidate{
		Chromosome: c,
		Rank:       RankUnset,
	}
}

// Clone returns an independent copy that keeps the chromosome, objectives and
// rank but none of the sort bookkeeping.
func (c Candidate) Clone() Candidate {
	return Candidate{
		Chromosome: c.Chromosome.Clone(),
		Objectives: c.Objectives.Clone(),
		Rank:       c.Rank,
	}
}

func (c Candidate) String() string {
	return fmt.Sprintf("%v%v(rank=%d)", c.Chromosome.Indices(), []float64(c.Objectives), c.Rank)
}

// Dataset describes the feature universe a search runs over.
type Dataset struct {
	Name string
	// NumAttributes is the size of the feature universe, label included.
	NumAttributes int
	// ClassIndex is the reserved label index, or -1 when there is none.
	ClassIndex int
}

// HasClass reports whether one of the attributes is the reserved label.
func (d Dataset) HasClass() bool {
	return d.ClassIndex >= 0
}

// SelectableFeatures returns the number of attributes a subset may contain.
func (d Dataset) SelectableFeatures() int {
	if d.HasClass() && d.ClassIndex < d.NumAttributes {
		return d.NumAttributes - 1
	}
	return d.NumAttributes
}
