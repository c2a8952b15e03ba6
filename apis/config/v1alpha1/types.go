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

// RunConfiguration holds every parameter of one evolution run.
type RunConfiguration struct {
	// RandomSeed seeds the single random stream of the run
	RandomSeed *uint64 `json:"randomSeed"`

	// PopulationSize is the number of individuals kept in every generation
	PopulationSize int `json:"populationSize"`

	// NumGenerations is the number of generations, counting the founding one
	NumGenerations int `json:"numGenerations"`

	// PerSiteMutationRate is the probability that any single gene is mutated
	PerSiteMutationRate *float64 `json:"perSiteMutationRate"`

	// MutationEffectSize is the standard deviation of the Gaussian mutation
	MutationEffectSize *float64 `json:"mutationEffectSize"`

	// SelectionScheme names the evolver
	// +kubebuilder:validation:Enum=NSGAII
	SelectionScheme SelectionScheme `json:"selectionScheme,omitempty"`

	// Replacement decides whether parents compete with their offspring
	// +kubebuilder:validation:Enum=Generational;Elitist
	Replacement ReplacementStrategy `json:"replacement,omitempty"`

	// FractionWithoutRidge is the share of the founding generation generated without ridges
	FractionWithoutRidge *float64 `json:"fractionWithoutRidge"`

	// NumWallPairs is the number of wall pairs of every genome
	NumWallPairs int `json:"numWallPairs"`

	// FitnessFunction names the objective function
	// +kubebuilder:validation:Enum=Echo;HornSize;ZDT1
	FitnessFunction string `json:"fitnessFunction,omitempty"`

	// CacheFitness memoizes objective values of identical genomes
	CacheFitness bool `json:"cacheFitness,omitempty"`

	// Bounds holds the inclusive range of every gene
	Bounds GenomeBounds `json:"bounds"`

	// Output controls what the run writes
	Output OutputOptions `json:"output,omitempty"`
}

// SelectionScheme names an evolver
type SelectionScheme string

const (
	// SelectionSchemeNSGAII is the NSGA-II evolver
	SelectionSchemeNSGAII SelectionScheme = "NSGAII"
)

// ReplacementStrategy names how a generation is replaced
type ReplacementStrategy string

const (
	// ReplacementGenerational replaces the whole population with offspring
	ReplacementGenerational ReplacementStrategy = "Generational"

	// ReplacementElitist keeps the best of parents and offspring
	ReplacementElitist ReplacementStrategy = "Elitist"
)

// Bound is an inclusive range
type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GenomeBounds contains the range of every gene
type GenomeBounds struct {
	FlareLength     *Bound `json:"flareLength"`
	WaveguideHeight *Bound `json:"waveguideHeight"`
	WaveguideLength *Bound `json:"waveguideLength"`
	WaveguideWidth  *Bound `json:"waveguideWidth"`

	Angle                *Bound `json:"angle"`
	RidgeHeight          *Bound `json:"ridgeHeight"`
	RidgeWidthTop        *Bound `json:"ridgeWidthTop"`
	RidgeWidthBottom     *Bound `json:"ridgeWidthBottom"`
	RidgeThicknessTop    *Bound `json:"ridgeThicknessTop"`
	RidgeThicknessBottom *Bound `json:"ridgeThicknessBottom"`
}

// Named lists the bounds with their JSON names in a fixed order
func (b *GenomeBounds) Named() []NamedBound {
	return []NamedBound{
		{"flareLength", b.FlareLength},
		{"waveguideHeight", b.WaveguideHeight},
		{"waveguideLength", b.WaveguideLength},
		{"waveguideWidth", b.WaveguideWidth},
		{"angle", b.Angle},
		{"ridgeHeight", b.RidgeHeight},
		{"ridgeWidthTop", b.RidgeWidthTop},
		{"ridgeWidthBottom", b.RidgeWidthBottom},
		{"ridgeThicknessTop", b.RidgeThicknessTop},
		{"ridgeThicknessBottom", b.RidgeThicknessBottom},
	}
}

// NamedBound pairs a bound with its field name
type NamedBound struct {
	Name  string
	Bound *Bound
}

// OutputOptions describes where run results go
type OutputOptions struct {
	// Directory receives the CSV files and plots; empty disables file output
	Directory string `json:"directory,omitempty"`

	// BestIndividualsFile is rewritten every generation with the first front
	BestIndividualsFile string `json:"bestIndividualsFile,omitempty"`

	// FitnessFile is appended with per-objective statistics every generation
	FitnessFile string `json:"fitnessFile,omitempty"`

	// Plot renders the final first front as an HTML scatter chart
	Plot bool `json:"plot,omitempty"`

	// PlotObjectives names the two objectives on the chart axes
	PlotObjectives []string `json:"plotObjectives,omitempty"`

	// SQLitePath stores every generation in a SQLite database when set
	SQLitePath string `json:"sqlitePath,omitempty"`
}
