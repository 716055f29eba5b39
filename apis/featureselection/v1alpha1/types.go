/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SearchConfiguration describes one feature subset search: the feature
// universe, the evaluator and the tunables of the evolutionary algorithm.
// Unset optional fields are filled by SetDefaults_SearchConfiguration.
type SearchConfiguration struct {
	metav1.TypeMeta `json:",inline"`

	// Dataset describes the feature universe searched over
	Dataset DatasetSpec `json:"dataset"`

	// Benchmark is the name of the synthetic evaluator scoring the subsets
	Benchmark string `json:"benchmark,omitempty"`

	// BenchmarkSeed seeds the hidden parameters of the benchmark
	BenchmarkSeed *uint64 `json:"benchmarkSeed,omitempty"`

	// Objectives are the names of the objectives handed to the evaluator, in order
	Objectives []string `json:"objectives,omitempty"`

	// PopulationSize is the number of candidates kept between generations, must be even
	PopulationSize *int32 `json:"populationSize,omitempty"`

	// MaxGenerations is the number of generations run after initialisation
	MaxGenerations *int32 `json:"maxGenerations,omitempty"`

	// CrossoverProbability is the chance a parent pair exchanges a prefix
	CrossoverProbability *float64 `json:"crossoverProbability,omitempty"`

	// MutationProbability is the per feature flip chance of an offspring
	MutationProbability *float64 `json:"mutationProbability,omitempty"`

	// Seed seeds the random streams of the search
	Seed *int64 `json:"seed,omitempty"`

	// Parallel runs the search on a pool of workers
	Parallel *bool `json:"parallel,omitempty"`

	// Workers is the size of the worker pool, 0 means one worker per CPU
	Workers *int32 `json:"workers,omitempty"`

	// RemoveDuplicates drops duplicated subsets before every selection
	RemoveDuplicates *bool `json:"removeDuplicates,omitempty"`

	// StartSet is a subset of feature indices seeding the initial population
	StartSet []int32 `json:"startSet,omitempty"`

	// ReportFrequency is the number of generations between progress reports
	ReportFrequency *int32 `json:"reportFrequency,omitempty"`
}

// DatasetSpec describes the attributes of a dataset.
type DatasetSpec struct {
	// Name of the dataset, used in logs and results
	Name string `json:"name,omitempty"`

	// NumAttributes is the number of attributes, the class attribute included
	NumAttributes int32 `json:"numAttributes"`

	// ClassIndex is the index of the class attribute, -1 when there is none.
	// Defaults to the last attribute.
	ClassIndex *int32 `json:"classIndex,omitempty"`
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	metav1.TypeMeta `json:",inline"`

	// Algorithm is the name of the driver that ran the search
	Algorithm string `json:"algorithm"`

	// Dataset is the name of the searched dataset
	Dataset string `json:"dataset,omitempty"`

	// Objectives are the objective names, in the order of FeatureSubset.Objectives
	Objectives []string `json:"objectives"`

	// Front holds the non-dominated subsets ordered by size, then lexicographically
	Front []FeatureSubset `json:"front"`

	// Stats summarises the work done by the search
	Stats SearchStats `json:"stats"`
}

// FeatureSubset is one subset of the front together with its scores.
type FeatureSubset struct {
	Features   []int32   `json:"features"`
	Objectives []float64 `json:"objectives"`
}

// SearchStats holds the counters of a finished search.
type SearchStats struct {
	Generations int32           `json:"generations"`
	Evaluations int64           `json:"evaluations"`
	CacheHits   int64           `json:"cacheHits"`
	Elapsed     metav1.Duration `json:"elapsed"`
}
