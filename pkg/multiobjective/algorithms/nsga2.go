package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"k8s.io/klog/v2"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

const (
	Name = "NSGA-II"
)

// Replacement decides how offspring replace the current generation.
type Replacement string

const (
	// Generational replaces the whole population with its offspring.
	Generational Replacement = "Generational"
	// Elitist merges parents and offspring and keeps the best by rank, then
	// by crowding distance.
	Elitist Replacement = "Elitist"
)

// NSGAII represents the NSGA-II algorithm configuration
type NSGAII struct {
	Evaluator    framework.Evaluator
	MutationRate float64
	EffectSize   float64
	Replacement  Replacement

	ids *framework.IDSource
}

var _ framework.Algorithm = &NSGAII{}

// NewNSGAII creates a new instance of NSGA-II. Offspring ids are drawn from
// ids, which must be shared with whoever created the founding generation.
func NewNSGAII(evaluator framework.Evaluator, ids *framework.IDSource, mutationRate, effectSize float64) *NSGAII {
	return &NSGAII{
		Evaluator:    evaluator,
		MutationRate: mutationRate,
		EffectSize:   effectSize,
		Replacement:  Generational,
		ids:          ids,
	}
}

func (n *NSGAII) Name() string {
	return Name
}

// Rank sorts the population into fronts and assigns crowding distances.
func Rank(population []*framework.Individual) ([][]*framework.Individual, framework.Annotations, error) {
	fronts, annotations, err := framework.NonDominatedSort(population)
	if err != nil {
		return nil, nil, err
	}
	for _, front := range fronts {
		if err := CrowdingDistance(front, annotations); err != nil {
			return nil, nil, err
		}
	}
	return fronts, annotations, nil
}

// CrowdingDistance calculates crowding distance for individuals in a front.
// The front itself is left in its original order.
func CrowdingDistance(front []*framework.Individual, annotations framework.Annotations) error {
	if len(front) == 0 {
		return nil
	}
	objectives, err := framework.Objectives(front)
	if err != nil {
		return err
	}
	for _, ind := range front {
		if annotations[ind.ID] == nil {
			return fmt.Errorf("individual %d has no annotation", ind.ID)
		}
		annotations[ind.ID].Distance = 0
	}

	// Every member sits on some boundary.
	if len(front) <= 2 || len(front) <= len(objectives) {
		for _, ind := range front {
			annotations[ind.ID].Distance = math.Inf(1)
		}
		return nil
	}

	sorted := make([]*framework.Individual, len(front))
	for _, obj := range objectives {
		copy(sorted, front)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Scores[obj] < sorted[j].Scores[obj]
		})

		// Set boundary points to infinity
		annotations[sorted[0].ID].Distance = math.Inf(1)
		annotations[sorted[len(sorted)-1].ID].Distance = math.Inf(1)

		objectiveRange := sorted[len(sorted)-1].Scores[obj] - sorted[0].Scores[obj]
		if objectiveRange == 0 {
			continue
		}

		// Calculate distance for intermediate points
		for i := 1; i < len(sorted)-1; i++ {
			a := annotations[sorted[i].ID]
			a.Distance += (sorted[i+1].Scores[obj] - sorted[i-1].Scores[obj]) / objectiveRange
		}
	}
	return nil
}

// TournamentSelect runs a binary tournament. Both contestants are drawn with
// replacement; lower rank wins, then larger crowding distance, then a coin flip.
func TournamentSelect(population []*framework.Individual, annotations framework.Annotations, rng *rand.Rand) *framework.Individual {
	a := population[rng.IntN(len(population))]
	b := population[rng.IntN(len(population))]

	ra, rb := annotations[a.ID], annotations[b.ID]
	switch {
	case ra.Rank < rb.Rank:
		return a
	case rb.Rank < ra.Rank:
		return b
	case ra.Distance > rb.Distance:
		return a
	case rb.Distance > ra.Distance:
		return b
	}

	if rng.IntN(2) == 0 {
		return a
	}
	return b
}

// Offspring copies the parent genome, mutates the copy and scores it.
func (n *NSGAII) Offspring(parent *framework.Individual, generation int, rng *rand.Rand) (*framework.Individual, error) {
	child := parent.Genome.Clone()
	genome.Mutate(child, n.MutationRate, n.EffectSize, rng)
	offspring, err := framework.NewIndividual(n.ids.Next(), parent.ID, generation, child, n.Evaluator)
	if err != nil {
		return nil, err
	}
	// offspring must be scored on the same objectives as their parent
	if _, err := framework.Objectives([]*framework.Individual{parent, offspring}); err != nil {
		return nil, err
	}
	return offspring, nil
}

// Evolve performs one generation of NSGA-II.
func (n *NSGAII) Evolve(ctx context.Context, population []*framework.Individual, generation int, rng *rand.Rand) ([]*framework.Individual, error) {
	logger := klog.FromContext(ctx)

	if len(population) == 0 {
		return nil, framework.ErrEmptyPopulation
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if n.ids == nil || n.Evaluator == nil {
		return nil, fmt.Errorf("%s is missing its id source or evaluator", n.Name())
	}

	fronts, annotations, err := Rank(population)
	if err != nil {
		return nil, fmt.Errorf("rank generation %d: %w", generation, err)
	}
	logger.V(4).Info("Ranked population", "generation", generation, "fronts", len(fronts), "paretoFront", len(fronts[0]))

	offspring := make([]*framework.Individual, 0, len(population))
	for i := 0; i < len(population); i++ {
		parent := TournamentSelect(population, annotations, rng)
		child, err := n.Offspring(parent, generation, rng)
		if err != nil {
			return nil, err
		}
		logger.V(5).Info("Created offspring", "id", child.ID, "parent", parent.ID, "parentRank", annotations[parent.ID].Rank)
		offspring = append(offspring, child)
	}

	switch n.Replacement {
	case Generational, "":
		return offspring, nil
	case Elitist:
		return Truncate(append(append([]*framework.Individual{}, population...), offspring...), len(population))
	}
	return nil, fmt.Errorf("unknown replacement strategy %q", n.Replacement)
}

// Truncate keeps the best size individuals: whole fronts while they fit,
// then the members of the overflowing front with the largest crowding
// distance.
func Truncate(combined []*framework.Individual, size int) ([]*framework.Individual, error) {
	fronts, annotations, err := Rank(combined)
	if err != nil {
		return nil, err
	}

	population := make([]*framework.Individual, 0, size)
	for _, front := range fronts {
		if len(population)+len(front) <= size {
			population = append(population, front...)
			continue
		}

		remaining := append([]*framework.Individual{}, front...)
		sort.SliceStable(remaining, func(i, j int) bool {
			return annotations[remaining[i].ID].Distance > annotations[remaining[j].ID].Distance
		})
		population = append(population, remaining[:size-len(population)]...)
		break
	}
	return population, nil
}
