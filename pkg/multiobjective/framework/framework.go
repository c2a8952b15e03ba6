package framework

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

// Evaluator is the fitness function contract. It must return the same set
// of objective names for every genome of a run, already oriented so that
// lower values are better.
type Evaluator interface {
	Name() string
	Evaluate(*genome.Genome) (Scores, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(*genome.Genome) (Scores, error)

func (f EvaluatorFunc) Name() string {
	return "func"
}

func (f EvaluatorFunc) Evaluate(g *genome.Genome) (Scores, error) {
	return f(g)
}

// Algorithm describes the contract that a MOO algorithm needs to implement.
type Algorithm interface {
	Name() string

	// Evolve consumes one generation and returns a population of the same
	// size. All randomness is drawn from rng.
	Evolve(ctx context.Context, population []*Individual, generation int, rng *rand.Rand) ([]*Individual, error)
}

// IDSource hands out strictly increasing individual ids for a run.
type IDSource struct {
	mu   sync.Mutex
	next ID
}

// NewIDSource returns a source whose first id is start.
func NewIDSource(start ID) *IDSource {
	return &IDSource{next: start}
}

// Next returns a fresh id.
func (s *IDSource) Next() ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (s *IDSource) Peek() ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.next
}
