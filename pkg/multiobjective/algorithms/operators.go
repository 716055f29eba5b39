package algorithms

import (
	"errors"
	"math/rand/v2"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// maxVaryAttempts bounds the retries of Vary when offspring keep coming out
// empty, which only happens with degenerate probabilities.
const maxVaryAttempts = 10000

// ErrVariationExhausted is returned when Vary cannot produce two non-empty
// offspring from a parent pair.
var ErrVariationExhausted = errors.New("variation kept producing empty offspring")

// Operators bundles initialisation, crossover and mutation over a fixed
// feature universe. It holds no random state: every call takes the stream of
// the actor using it.
type Operators struct {
	NumAttributes int
	// ClassIndex is excluded from initialisation and mutation, -1 if none.
	ClassIndex           int
	CrossoverProbability float64
	MutationProbability  float64
}

func NewOperators(dataset framework.Dataset, config NSGA2Config) Operators {
	return Operators{
		NumAttributes:        dataset.NumAttributes,
		ClassIndex:           dataset.ClassIndex,
		CrossoverProbability: config.CrossoverProbability,
		MutationProbability:  config.MutationProbability,
	}
}

func (o Operators) isClass(i int) bool {
	return o.ClassIndex >= 0 && i == o.ClassIndex
}

// randomFeature draws a feature index other than the class index.
func (o Operators) randomFeature(rng *rand.Rand) int {
	for {
		bit := rng.IntN(o.NumAttributes)
		if !o.isClass(bit) {
			return bit
		}
	}
}

// Initialize creates a random chromosome. Up to NumAttributes-2 random
// features are set; picks may collide, so fewer bits can end up selected.
func (o Operators) Initialize(rng *rand.Rand) framework.Chromosome {
	c := framework.NewChromosome(o.NumAttributes)

	numBits := int(rng.Int64()%int64(o.NumAttributes)) - 1
	if numBits < 0 {
		numBits = -numBits
	}
	if numBits == 0 {
		numBits = 1
	}

	for j := 0; j < numBits; j++ {
		c.Set(o.randomFeature(rng))
	}
	return c
}

// StartChromosome encodes a starting subset, dropping the class index.
func (o Operators) StartChromosome(indices []int) framework.Chromosome {
	c := framework.NewChromosome(o.NumAttributes)
	for _, i := range indices {
		if !o.isClass(i) {
			c.Set(i)
		}
	}
	return c
}

// Crossover performs single point crossover in place: with probability
// CrossoverProbability the prefixes [0, cp) of a and b are swapped, for a cut
// point cp drawn from [1, NumAttributes-2].
func (o Operators) Crossover(rng *rand.Rand, a, b *framework.Chromosome) {
	r := rng.Float64()
	if o.NumAttributes < 3 || r >= o.CrossoverProbability {
		return
	}
	cp := rng.IntN(o.NumAttributes-2) + 1
	framework.SwapPrefix(a, b, cp)
}

// Mutate performs bit-flip mutation on every bit except the class index.
func (o Operators) Mutate(rng *rand.Rand, c *framework.Chromosome) {
	for i := 0; i < o.NumAttributes; i++ {
		if rng.Float64() < o.MutationProbability && !o.isClass(i) {
			c.Flip(i)
		}
	}
}

// Vary produces two offspring from a parent pair, redoing the whole step from
// the same parents until both offspring select at least one feature.
//
// Parents carrying the same chromosome would be left untouched by crossover,
// so instead a single random feature of the first offspring is flipped.
func (o Operators) Vary(rng *rand.Rand, a, b framework.Chromosome) (framework.Chromosome, framework.Chromosome, error) {
	selfPair := a.Equal(b)
	for attempt := 0; attempt < maxVaryAttempts; attempt++ {
		c0, c1 := a.Clone(), b.Clone()
		if selfPair {
			c0.Flip(o.randomFeature(rng))
		} else {
			o.Crossover(rng, &c0, &c1)
			o.Mutate(rng, &c0)
			o.Mutate(rng, &c1)
		}
		if !c0.IsEmpty() && !c1.IsEmpty() {
			return c0, c1, nil
		}
	}
	return framework.Chromosome{}, framework.Chromosome{}, ErrVariationExhausted
}
