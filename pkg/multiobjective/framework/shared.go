package framework

import (
	"errors"
	"fmt"

	"k8s.io/utils/set"
)

var (
	// ErrEmptyPopulation is returned when an operation needs at least one individual.
	ErrEmptyPopulation = errors.New("population is empty")
	// ErrObjectiveMismatch is returned when individuals disagree on their objective names.
	ErrObjectiveMismatch = errors.New("objective names differ between individuals")
)

// Objectives returns the sorted objective names shared by every individual
// of the population.
func Objectives(population []*Individual) ([]string, error) {
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}
	names := population[0].Scores.Names()
	want := set.New(names...)
	for _, ind := range population[1:] {
		have := set.KeySet(map[string]float64(ind.Scores))
		if !have.Equal(want) {
			return nil, fmt.Errorf("%w: individual %d has %v, individual %d has %v",
				ErrObjectiveMismatch, population[0].ID, names, ind.ID, have.SortedList())
		}
	}
	return names, nil
}

// NonDominatedSort performs non-dominated sorting on the population. It
// returns only non-empty fronts ordered best first, and a fresh annotation
// table whose Rank is the 1-indexed front number of every individual.
func NonDominatedSort(population []*Individual) ([][]*Individual, Annotations, error) {
	objectives, err := Objectives(population)
	if err != nil {
		return nil, nil, err
	}

	annotations := make(Annotations, len(population))
	points := make([]ObjectiveSpacePoint, len(population))
	for i, ind := range population {
		if _, dup := annotations[ind.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate individual id %d in population", ind.ID)
		}
		annotations[ind.ID] = &Annotation{}
		if points[i], err = ind.Scores.Point(objectives); err != nil {
			return nil, nil, err
		}
	}

	dominated := make([][]int, len(population))
	domCount := make([]int, len(population))

	// Calculate domination for each individual
	for i := range population {
		for j := range population {
			if i == j {
				continue
			}
			if Dominates(points[i], points[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(points[j], points[i]) {
				domCount[i]++
			}
		}
	}

	// Find first front
	var currentFront []int
	for i := range population {
		if domCount[i] == 0 {
			currentFront = append(currentFront, i)
		}
	}

	var fronts [][]*Individual
	for rank := 1; len(currentFront) > 0; rank++ {
		front := make([]*Individual, len(currentFront))
		for k, idx := range currentFront {
			front[k] = population[idx]
			annotations[population[idx].ID].Rank = rank
		}
		fronts = append(fronts, front)

		var nextFront []int
		for _, idx := range currentFront {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					nextFront = append(nextFront, dominatedIdx)
				}
			}
		}
		currentFront = nextFront
	}

	return fronts, annotations, nil
}

// Dominates checks if point a dominates point b under minimization.
func Dominates(a, b ObjectiveSpacePoint) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// DominatesScores is Dominates over named scores. It fails when the two
// score sets do not name the same objectives.
func DominatesScores(a, b Scores) (bool, error) {
	objectives := a.Names()
	pa, err := a.Point(objectives)
	if err != nil {
		return false, err
	}
	pb, err := b.Point(objectives)
	if err != nil {
		return false, err
	}
	return Dominates(pa, pb), nil
}
