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

const (
	DefaultFitnessFunction     = "Echo"
	DefaultBestIndividualsFile = "best_individuals.csv"
	DefaultFitnessFile         = "fitness.csv"
)

// SetDefaults_RunConfiguration fills the optional knobs. Required parameters
// are left alone so that validation reports them.
func SetDefaults_RunConfiguration(obj *RunConfiguration) {
	if obj.SelectionScheme == "" {
		obj.SelectionScheme = SelectionSchemeNSGAII
	}
	if obj.Replacement == "" {
		obj.Replacement = ReplacementGenerational
	}
	if obj.FitnessFunction == "" {
		obj.FitnessFunction = DefaultFitnessFunction
	}
	if obj.Output.BestIndividualsFile == "" {
		obj.Output.BestIndividualsFile = DefaultBestIndividualsFile
	}
	if obj.Output.FitnessFile == "" {
		obj.Output.FitnessFile = DefaultFitnessFile
	}
}
