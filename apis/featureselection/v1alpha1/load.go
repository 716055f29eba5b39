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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// LoadSearchConfiguration decodes a YAML or JSON configuration, runs the
// overrides on it in order and then applies the defaults. Empty data yields
// a configuration built from the overrides and defaults only.
func LoadSearchConfiguration(data []byte, overrides ...func(*SearchConfiguration)) (*SearchConfiguration, error) {
	obj, err := DecodeSearchConfiguration(data)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(obj)
	}
	SetDefaults_SearchConfiguration(obj)
	return obj, nil
}

// DecodeSearchConfiguration decodes a configuration without defaulting it.
// Unknown fields are rejected.
func DecodeSearchConfiguration(data []byte) (*SearchConfiguration, error) {
	obj := &SearchConfiguration{}
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return nil, fmt.Errorf("decoding search configuration: %w", err)
	}
	if obj.APIVersion != "" && obj.APIVersion != SchemeGroupVersion.String() {
		return nil, fmt.Errorf("unsupported apiVersion %q, want %q", obj.APIVersion, SchemeGroupVersion.String())
	}
	if obj.Kind != "" && obj.Kind != SearchConfigurationKind {
		return nil, fmt.Errorf("unsupported kind %q, want %q", obj.Kind, SearchConfigurationKind)
	}
	return obj, nil
}

// LoadSearchConfigurationFile reads the configuration stored at path and
// loads it like LoadSearchConfiguration.
func LoadSearchConfigurationFile(path string, overrides ...func(*SearchConfiguration)) (*SearchConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	obj, err := LoadSearchConfiguration(data, overrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// MarshalSearchResult encodes a result as YAML.
func MarshalSearchResult(result *SearchResult) ([]byte, error) {
	return yaml.Marshal(result)
}
