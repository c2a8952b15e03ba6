// Package analysis records the progress of a run: the first front of every
// generation and per-objective fitness statistics.
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
)

// BestIndividuals returns the non-dominated members of the population in
// population order. Ranks are always recomputed, never read from a previous
// generation.
func BestIndividuals(population []*framework.Individual) ([]*framework.Individual, error) {
	fronts, _, err := framework.NonDominatedSort(population)
	if err != nil {
		return nil, err
	}
	return fronts[0], nil
}

// ObjectiveStats summarizes one objective over a population.
type ObjectiveStats struct {
	Name    string
	Average float64
	Maximum float64
}

// GenerationStats holds the statistics of every objective, sorted by name.
type GenerationStats struct {
	Generation int
	Objectives []ObjectiveStats
}

// FitnessStats computes the average and maximum of every objective.
func FitnessStats(generation int, population []*framework.Individual) (GenerationStats, error) {
	objectives, err := framework.Objectives(population)
	if err != nil {
		return GenerationStats{}, err
	}

	stats := GenerationStats{Generation: generation}
	values := make([]float64, len(population))
	for _, name := range objectives {
		for i, ind := range population {
			values[i] = ind.Scores[name]
		}
		stats.Objectives = append(stats.Objectives, ObjectiveStats{
			Name:    name,
			Average: stat.Mean(values, nil),
			Maximum: floats.Max(values),
		})
	}
	return stats, nil
}

// Get returns the statistics of the named objective.
func (s GenerationStats) Get(name string) (ObjectiveStats, error) {
	for _, o := range s.Objectives {
		if o.Name == name {
			return o, nil
		}
	}
	return ObjectiveStats{}, fmt.Errorf("%w: no statistics for %q", framework.ErrObjectiveMismatch, name)
}
