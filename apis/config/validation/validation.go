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

package validation

import (
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
)

var (
	validSelectionSchemes = []string{string(v1alpha1.SelectionSchemeNSGAII)}
	validReplacements     = []string{string(v1alpha1.ReplacementGenerational), string(v1alpha1.ReplacementElitist)}
)

// ValidateRunConfiguration validates a defaulted run configuration. The
// returned error names every offending parameter.
func ValidateRunConfiguration(cfg *v1alpha1.RunConfiguration, fitnessFunctions []string) error {
	var allErrs field.ErrorList

	if cfg.PopulationSize <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("populationSize"), cfg.PopulationSize, "must be greater than zero"))
	}
	if cfg.NumGenerations <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("numGenerations"), cfg.NumGenerations, "must be greater than zero"))
	}
	if cfg.NumWallPairs <= 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("numWallPairs"), cfg.NumWallPairs, "must be greater than zero"))
	}
	if cfg.RandomSeed == nil {
		allErrs = append(allErrs, field.Required(field.NewPath("randomSeed"), "random seed must be set"))
	}
	allErrs = append(allErrs, validateProbability(field.NewPath("perSiteMutationRate"), cfg.PerSiteMutationRate)...)
	allErrs = append(allErrs, validateProbability(field.NewPath("fractionWithoutRidge"), cfg.FractionWithoutRidge)...)
	effectPath := field.NewPath("mutationEffectSize")
	switch effect := cfg.MutationEffectSize; {
	case effect == nil:
		allErrs = append(allErrs, field.Required(effectPath, "mutation effect size must be set"))
	case !finite(*effect) || *effect < 0:
		allErrs = append(allErrs, field.Invalid(effectPath, *effect, "must be a finite non-negative number"))
	}

	if !contains(validSelectionSchemes, string(cfg.SelectionScheme)) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("selectionScheme"), cfg.SelectionScheme, validSelectionSchemes))
	}
	if !contains(validReplacements, string(cfg.Replacement)) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("replacement"), cfg.Replacement, validReplacements))
	}
	if !contains(fitnessFunctions, cfg.FitnessFunction) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("fitnessFunction"), cfg.FitnessFunction, fitnessFunctions))
	}

	boundsPath := field.NewPath("bounds")
	for _, nb := range cfg.Bounds.Named() {
		p := boundsPath.Child(nb.Name)
		if nb.Bound == nil {
			allErrs = append(allErrs, field.Required(p, "bound must be set"))
			continue
		}
		if !finite(nb.Bound.Min) || !finite(nb.Bound.Max) {
			allErrs = append(allErrs, field.Invalid(p, *nb.Bound, "min and max must be finite"))
			continue
		}
		if nb.Bound.Min > nb.Bound.Max {
			allErrs = append(allErrs, field.Invalid(p.Child("min"), nb.Bound.Min, "must not exceed max"))
		}
	}

	if cfg.Output.Plot && len(cfg.Output.PlotObjectives) != 0 && len(cfg.Output.PlotObjectives) != 2 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("output", "plotObjectives"), cfg.Output.PlotObjectives, "must name exactly two objectives"))
	}

	return allErrs.ToAggregate()
}

func validateProbability(path *field.Path, v *float64) field.ErrorList {
	if v == nil {
		return field.ErrorList{field.Required(path, "probability must be set")}
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return field.ErrorList{field.Invalid(path, *v, "must be in the range [0, 1]")}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
