package framework

import (
	"fmt"
	"sort"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

// ID identifies an individual across a whole run.
type ID int64

// NoParent is the parent reference of the founding generation.
const NoParent ID = -1

// Scores maps an objective name to its value. Lower is better.
type Scores map[string]float64

// Names returns the objective names in sorted order.
func (s Scores) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Point projects the scores onto the given objective order.
func (s Scores) Point(objectives []string) (ObjectiveSpacePoint, error) {
	if len(s) != len(objectives) {
		return nil, fmt.Errorf("%w: have %d objectives, want %d", ErrObjectiveMismatch, len(s), len(objectives))
	}
	p := make(ObjectiveSpacePoint, len(objectives))
	for i, name := range objectives {
		v, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing objective %q", ErrObjectiveMismatch, name)
		}
		p[i] = v
	}
	return p, nil
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	c := make(Scores, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Individual is a scored genome with its lineage. Per-generation ranking
// state lives in Annotations, not here.
type Individual struct {
	ID         ID
	ParentID   ID
	Generation int
	Genome     *genome.Genome
	Scores     Scores
}

// NewIndividual scores g with the evaluator and wraps it.
func NewIndividual(id, parentID ID, generation int, g *genome.Genome, evaluator Evaluator) (*Individual, error) {
	scores, err := evaluator.Evaluate(g)
	if err != nil {
		return nil, fmt.Errorf("evaluate individual %d: %w", id, err)
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("evaluate individual %d: %s returned no objectives", id, evaluator.Name())
	}
	return &Individual{
		ID:         id,
		ParentID:   parentID,
		Generation: generation,
		Genome:     g,
		Scores:     scores,
	}, nil
}

// Annotation is the NSGA-II scratch state of one individual for a single
// generation. Rank is 1-indexed.
type Annotation struct {
	Rank     int
	Distance float64
}

// Annotations is a side table keyed by individual id. A fresh table is built
// for every ranking so nothing leaks across generations.
type Annotations map[ID]*Annotation
