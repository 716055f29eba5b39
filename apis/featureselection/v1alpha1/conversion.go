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
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"

	"github.com/mofes/featureselection/pkg/multiobjective/algorithms"
	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// ToNSGA2Config converts the tunables of a defaulted configuration. Fields
// left unset fall back to algorithms.DefaultNSGA2Config.
func ToNSGA2Config(in *SearchConfiguration) algorithms.NSGA2Config {
	out := algorithms.DefaultNSGA2Config()
	out.PopulationSize = int(ptr.Deref(in.PopulationSize, int32(out.PopulationSize)))
	out.MaxGenerations = int(ptr.Deref(in.MaxGenerations, int32(out.MaxGenerations)))
	out.CrossoverProbability = ptr.Deref(in.CrossoverProbability, out.CrossoverProbability)
	out.MutationProbability = ptr.Deref(in.MutationProbability, out.MutationProbability)
	out.Seed = ptr.Deref(in.Seed, out.Seed)
	out.Parallel = ptr.Deref(in.Parallel, out.Parallel)
	out.Workers = int(ptr.Deref(in.Workers, int32(out.Workers)))
	out.RemoveDuplicates = ptr.Deref(in.RemoveDuplicates, out.RemoveDuplicates)
	out.ReportFrequency = int(ptr.Deref(in.ReportFrequency, int32(out.ReportFrequency)))
	for _, idx := range in.StartSet {
		out.StartSet = append(out.StartSet, int(idx))
	}
	return out
}

// ToDataset converts the dataset description.
func ToDataset(in *DatasetSpec) framework.Dataset {
	return framework.Dataset{
		Name:          in.Name,
		NumAttributes: int(in.NumAttributes),
		ClassIndex:    int(ptr.Deref(in.ClassIndex, in.NumAttributes-1)),
	}
}

// NewSearchResult converts the outcome of a search. The front lists the
// distinct rank 0 subsets of the final population with their scores.
func NewSearchResult(algorithm, dataset string, objectives []string, in *algorithms.Result) *SearchResult {
	out := &SearchResult{
		TypeMeta: metav1.TypeMeta{
			APIVersion: SchemeGroupVersion.String(),
			Kind:       SearchResultKind,
		},
		Algorithm:  algorithm,
		Dataset:    dataset,
		Objectives: objectives,
		Front:      []FeatureSubset{},
		Stats: SearchStats{
			Generations: int32(in.Stats.Generations),
			Evaluations: in.Stats.Evaluations,
			CacheHits:   in.Stats.CacheHits,
			Elapsed:     metav1.Duration{Duration: in.Stats.Elapsed},
		},
	}

	seen := sets.New[string]()
	for i := range in.Population {
		c := &in.Population[i]
		if c.Rank != 0 || seen.Has(c.Chromosome.Key()) {
			continue
		}
		seen.Insert(c.Chromosome.Key())

		indices := c.Chromosome.Indices()
		features := make([]int32, len(indices))
		for j, idx := range indices {
			features[j] = int32(idx)
		}
		out.Front = append(out.Front, FeatureSubset{
			Features:   features,
			Objectives: slices.Clone([]float64(c.Objectives)),
		})
	}
	slices.SortFunc(out.Front, func(a, b FeatureSubset) int {
		if len(a.Features) != len(b.Features) {
			return len(a.Features) - len(b.Features)
		}
		return slices.Compare(a.Features, b.Features)
	})
	return out
}
