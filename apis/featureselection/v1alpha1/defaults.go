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
	"k8s.io/utils/ptr"

	"github.com/mofes/featureselection/pkg/multiobjective/algorithms"
	"github.com/mofes/featureselection/pkg/multiobjective/benchmarks"
)

var defaultObjectives = []string{benchmarks.ObjectiveFeatureNumber, benchmarks.ObjectiveScore}

// SetDefaults_SearchConfiguration sets the default values of the unset fields.
func SetDefaults_SearchConfiguration(obj *SearchConfiguration) {
	defaults := algorithms.DefaultNSGA2Config()

	if obj.APIVersion == "" {
		obj.APIVersion = SchemeGroupVersion.String()
	}
	if obj.Kind == "" {
		obj.Kind = SearchConfigurationKind
	}

	if obj.Dataset.ClassIndex == nil {
		obj.Dataset.ClassIndex = ptr.To(obj.Dataset.NumAttributes - 1)
	}
	if obj.Benchmark == "" {
		obj.Benchmark = benchmarks.Name
	}
	if obj.BenchmarkSeed == nil {
		obj.BenchmarkSeed = ptr.To[uint64](1)
	}
	if len(obj.Objectives) == 0 {
		obj.Objectives = append([]string(nil), defaultObjectives...)
	}

	if obj.PopulationSize == nil {
		obj.PopulationSize = ptr.To(int32(defaults.PopulationSize))
	}
	if obj.MaxGenerations == nil {
		obj.MaxGenerations = ptr.To(int32(defaults.MaxGenerations))
	}
	if obj.CrossoverProbability == nil {
		obj.CrossoverProbability = ptr.To(defaults.CrossoverProbability)
	}
	if obj.MutationProbability == nil {
		obj.MutationProbability = ptr.To(defaults.MutationProbability)
	}
	if obj.Seed == nil {
		obj.Seed = ptr.To(defaults.Seed)
	}
	if obj.Parallel == nil {
		obj.Parallel = ptr.To(defaults.Parallel)
	}
	if obj.Workers == nil {
		obj.Workers = ptr.To(int32(defaults.Workers))
	}
	if obj.RemoveDuplicates == nil {
		obj.RemoveDuplicates = ptr.To(defaults.RemoveDuplicates)
	}
	if obj.ReportFrequency == nil {
		// Only the initial and final generations
		obj.ReportFrequency = ptr.To(*obj.MaxGenerations)
	}
}
