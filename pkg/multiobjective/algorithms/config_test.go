package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofes/featureselection/pkg/multiobjective/benchmarks"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

func TestValidate(t *testing.T) {
	dataset := framework.Dataset{NumAttributes: 10, ClassIndex: 9}
	objectives := []string{"FN", "AUC"}

	tests := []struct {
		name       string
		modify     func(*NSGA2Config)
		dataset    *framework.Dataset
		objectives []string
		wantFields []string
	}{
		{
			name: "defaults",
		},
		{
			name:       "odd population",
			modify:     func(c *NSGA2Config) { c.PopulationSize = 7 },
			wantFields: []string{"config.populationSize"},
		},
		{
			name:       "population too small",
			modify:     func(c *NSGA2Config) { c.PopulationSize = 0 },
			wantFields: []string{"config.populationSize"},
		},
		{
			name: "probabilities out of range",
			modify: func(c *NSGA2Config) {
				c.CrossoverProbability = 1.5
				c.MutationProbability = -0.1
			},
			wantFields: []string{"config.crossoverProbability", "config.mutationProbability"},
		},
		{
			name: "NaN probabilities",
			modify: func(c *NSGA2Config) {
				c.CrossoverProbability = math.NaN()
				c.MutationProbability = math.NaN()
			},
			wantFields: []string{"config.crossoverProbability", "config.mutationProbability"},
		},
		{
			name: "negative counts",
			modify: func(c *NSGA2Config) {
				c.MaxGenerations = -1
				c.Workers = -2
				c.ReportFrequency = -3
			},
			wantFields: []string{"config.maxGenerations", "config.workers", "config.reportFrequency"},
		},
		{
			name:       "no objectives",
			objectives: []string{},
			wantFields: []string{"objectives"},
		},
		{
			name:       "class index out of range",
			dataset:    &framework.Dataset{NumAttributes: 10, ClassIndex: 10},
			wantFields: []string{"dataset.classIndex"},
		},
		{
			name:       "only the class attribute",
			dataset:    &framework.Dataset{NumAttributes: 1, ClassIndex: 0},
			wantFields: []string{"dataset.numAttributes"},
		},
		{
			// Two selectable features and at most one bit per random
			// chromosome leave two distinct subsets
			name:       "too few distinct subsets",
			modify:     func(c *NSGA2Config) { c.PopulationSize = 4 },
			dataset:    &framework.Dataset{NumAttributes: 3, ClassIndex: 2},
			wantFields: []string{"dataset.numAttributes"},
		},
		{
			name:       "start set with the class",
			modify:     func(c *NSGA2Config) { c.StartSet = []int{1, 9, 12} },
			wantFields: []string{"config.startSet[1]", "config.startSet[2]"},
		},
		{
			name:       "start set without features",
			modify:     func(c *NSGA2Config) { c.StartSet = []int{9} },
			wantFields: []string{"config.startSet[0]", "config.startSet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultNSGA2Config()
			if tt.modify != nil {
				tt.modify(&config)
			}
			ds := dataset
			if tt.dataset != nil {
				ds = *tt.dataset
			}
			objs := objectives
			if tt.objectives != nil {
				objs = tt.objectives
			}

			errs := config.Validate(ds, objs)
			var fields []string
			for _, err := range errs {
				fields = append(fields, err.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestReachableSubsets(t *testing.T) {
	// C(4,1) + C(4,2) + C(4,3)
	assert.Equal(t, 14, reachableSubsets(4, 3, 100))
	assert.Equal(t, 4, reachableSubsets(4, 3, 2), "counting stops at the limit")
	assert.Equal(t, 2, reachableSubsets(2, 1, 100))
	assert.Equal(t, 1, reachableSubsets(1, 5, 100))
}

func TestConstructorsRejectInvalidConfig(t *testing.T) {
	dataset := framework.Dataset{NumAttributes: 10, ClassIndex: 9}
	config := DefaultNSGA2Config()
	config.PopulationSize = 3

	_, err := NewNSGAII(config, dataset, relevanceObjectives, benchmarks.NewSubsetSize(0))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "config.populationSize")

	_, err = NewParallelNSGAII(config, dataset, relevanceObjectives, benchmarks.NewSubsetSize(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewNSGAII(DefaultNSGA2Config(), dataset, relevanceObjectives, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigString(t *testing.T) {
	config := DefaultNSGA2Config()
	assert.Equal(t, "start set: no attributes, population size: 80, generations: 10, "+
		"crossover probability: 1.000, mutation probability: 0.033, report frequency: 10, seed: 1", config.String())

	config.StartSet = []int{1, 4}
	config.Parallel = true
	config.Workers = 8
	assert.Contains(t, config.String(), "start set: [1 4]")
	assert.Contains(t, config.String(), "workers: 8")
}
