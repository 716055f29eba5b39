package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

func testOperators(n int, pc, pm float64) Operators {
	return Operators{
		NumAttributes:        n,
		ClassIndex:           n - 1,
		CrossoverProbability: pc,
		MutationProbability:  pm,
	}
}

func TestInitializeSkipsClassIndex(t *testing.T) {
	ops := testOperators(7, 1, 0)
	rng := newRand(3)
	for i := 0; i < 500; i++ {
		c := ops.Initialize(rng)
		require.False(t, c.IsEmpty())
		assert.False(t, c.Get(6), "class index must never be selected")
		assert.LessOrEqual(t, c.Count(), maxInitialBits(7))
	}
}

func TestStartChromosomeDropsClass(t *testing.T) {
	ops := testOperators(5, 1, 0)
	assert.Equal(t, []int{0, 2}, ops.StartChromosome([]int{0, 2, 4}).Indices())
}

func TestCrossoverSwapsPrefix(t *testing.T) {
	ops := testOperators(10, 1, 0)
	rng := newRand(9)
	for i := 0; i < 100; i++ {
		a := framework.ChromosomeFromIndices(10, 0, 1, 2, 3, 4, 5, 6, 7, 8)
		b := framework.NewChromosome(10)
		ops.Crossover(rng, &a, &b)

		// b received a non-empty strict prefix of a
		cut := b.Count()
		require.GreaterOrEqual(t, cut, 1)
		require.LessOrEqual(t, cut, 8)
		for bit := 0; bit < 10; bit++ {
			assert.Equal(t, bit < cut, b.Get(bit))
			assert.Equal(t, bit >= cut && bit < 9, a.Get(bit))
		}
	}
}

func TestCrossoverNeedsThreeAttributes(t *testing.T) {
	ops := testOperators(2, 1, 0)
	a := framework.ChromosomeFromIndices(2, 0)
	b := framework.ChromosomeFromIndices(2, 1)
	ops.Crossover(newRand(1), &a, &b)
	assert.Equal(t, []int{0}, a.Indices())
	assert.Equal(t, []int{1}, b.Indices())
}

func TestMutateNeverTouchesClass(t *testing.T) {
	ops := testOperators(6, 0, 1)
	c := framework.ChromosomeFromIndices(6, 0)
	ops.Mutate(newRand(1), &c)
	assert.Equal(t, []int{1, 2, 3, 4}, c.Indices())
}

func TestVaryWithoutCrossoverOrMutationCopiesParents(t *testing.T) {
	ops := testOperators(8, 0, 0)
	rng := newRand(5)
	a := framework.ChromosomeFromIndices(8, 0, 3)
	b := framework.ChromosomeFromIndices(8, 5)

	c0, c1, err := ops.Vary(rng, a, b)
	require.NoError(t, err)
	assert.True(t, c0.Equal(a))
	assert.True(t, c1.Equal(b))

	c0.Set(6)
	assert.False(t, a.Get(6), "offspring must not alias parents")
}

func TestVarySelfPairFlipsOneBit(t *testing.T) {
	ops := testOperators(8, 0, 0)
	rng := newRand(5)
	parent := framework.ChromosomeFromIndices(8, 1, 2, 4)

	for i := 0; i < 50; i++ {
		c0, c1, err := ops.Vary(rng, parent, parent.Clone())
		require.NoError(t, err)
		assert.True(t, c1.Equal(parent))

		diff := 0
		for bit := 0; bit < 8; bit++ {
			if c0.Get(bit) != parent.Get(bit) {
				diff++
				assert.NotEqual(t, 7, bit)
			}
		}
		assert.Equal(t, 1, diff)
	}
}

func TestVaryNeverReturnsEmptyOffspring(t *testing.T) {
	ops := testOperators(6, 1, 0.5)
	rng := newRand(11)
	a := framework.ChromosomeFromIndices(6, 0)
	b := framework.ChromosomeFromIndices(6, 4)
	for i := 0; i < 200; i++ {
		c0, c1, err := ops.Vary(rng, a, b)
		require.NoError(t, err)
		assert.False(t, c0.IsEmpty())
		assert.False(t, c1.IsEmpty())
	}
}

func TestVaryExhausted(t *testing.T) {
	// Identical parents with a single selectable feature: flipping it always
	// empties the offspring
	ops := testOperators(2, 0, 1)
	a := framework.ChromosomeFromIndices(2, 0)
	b := framework.ChromosomeFromIndices(2, 0)
	_, _, err := ops.Vary(newRand(1), a, b)
	assert.ErrorIs(t, err, ErrVariationExhausted)
}
