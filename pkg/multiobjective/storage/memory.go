package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
)

type generationKey struct {
	runID      string
	generation int
}

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
	populations map[generationKey]PopulationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunRecord)
	s.populations = make(map[generationKey]PopulationRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) SavePopulation(_ context.Context, runID string, generation int, population []*framework.Individual) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	record, err := toRecord(population)
	if err != nil {
		return err
	}
	s.populations[generationKey{runID, generation}] = record
	return nil
}

func (s *MemoryStore) GetPopulation(_ context.Context, runID string, generation int) ([]*framework.Individual, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.populations[generationKey{runID, generation}]
	if !ok {
		return nil, false, nil
	}
	population, err := fromRecord(record)
	if err != nil {
		return nil, false, err
	}
	return population, true, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var errNotInitialized = errors.New("store is not initialized")
