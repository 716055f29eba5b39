package benchmarks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

func TestSubsetSize(t *testing.T) {
	e := NewSubsetSize(0.5)
	v, err := e.Evaluate(context.Background(), framework.ChromosomeFromIndices(5, 0, 3), []string{"FN", "AUC"})
	require.NoError(t, err)
	assert.Equal(t, framework.ObjectiveVector{-2, 0.5}, v)

	clone, err := e.Clone()
	require.NoError(t, err)
	_, err = clone.Evaluate(context.Background(), framework.ChromosomeFromIndices(5, 1), []string{"FN"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), e.Calls())
}

func TestRelevanceScore(t *testing.T) {
	p := NewRelevance(6, 5, 42)
	w := p.Weights()
	assert.Zero(t, w[5])

	v, err := p.Evaluate(context.Background(), framework.ChromosomeFromIndices(6, 0, 2), []string{"FN", "auc"})
	require.NoError(t, err)
	assert.Equal(t, -2.0, v[0])
	assert.InDelta(t, 1-(1-w[0])*(1-w[2]), v[1], 1e-12)

	_, err = p.Evaluate(context.Background(), framework.ChromosomeFromIndices(6, 0), []string{"recall"})
	assert.ErrorContains(t, err, "unknown objective")

	_, err = p.Evaluate(context.Background(), framework.ChromosomeFromIndices(4, 0), []string{"FN"})
	assert.Error(t, err)
}

func TestRelevanceTrueParetoFront(t *testing.T) {
	p := NewRelevance(8, 0, 3)
	objectives := []string{ObjectiveFeatureNumber, ObjectiveScore}

	front, err := p.TrueParetoFront(objectives)
	require.NoError(t, err)
	require.Len(t, front, 7)

	for i := 1; i < len(front); i++ {
		assert.Equal(t, -float64(i+1), front[i][0])
		assert.Greater(t, front[i][1], front[i-1][1])
	}

	// No single feature beats the best singleton
	for f := 1; f < 8; f++ {
		v, err := p.Evaluate(context.Background(), framework.ChromosomeFromIndices(8, f), objectives)
		require.NoError(t, err)
		assert.LessOrEqual(t, v[1], front[0][1])
	}
}

func TestRelevanceCloneIsIndependent(t *testing.T) {
	p := NewRelevance(10, -1, 1)
	clone, err := p.Clone()
	require.NoError(t, err)

	subset := framework.ChromosomeFromIndices(10, 1, 4, 7)
	a, err := p.Evaluate(context.Background(), subset, []string{ObjectiveScore})
	require.NoError(t, err)
	b, err := clone.Evaluate(context.Background(), subset, []string{ObjectiveScore})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
