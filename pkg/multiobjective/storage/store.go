// Package storage keeps population snapshots of evolution runs.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

// Store defines the persistence operations of a run.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	SavePopulation(ctx context.Context, runID string, generation int, population []*framework.Individual) error
	GetPopulation(ctx context.Context, runID string, generation int) ([]*framework.Individual, bool, error)
	Close() error
}

// RunRecord describes one evolution run.
type RunRecord struct {
	ID              string    `json:"id"`
	Seed            uint64    `json:"seed"`
	FitnessFunction string    `json:"fitnessFunction"`
	PopulationSize  int       `json:"populationSize"`
	NumGenerations  int       `json:"numGenerations"`
	StartedAt       time.Time `json:"startedAt"`
}

// NewRunRecord returns a record with a fresh random id.
func NewRunRecord(seed uint64, fitnessFunction string, populationSize, numGenerations int) RunRecord {
	return RunRecord{
		ID:              uuid.NewString(),
		Seed:            seed,
		FitnessFunction: fitnessFunction,
		PopulationSize:  populationSize,
		NumGenerations:  numGenerations,
		StartedAt:       time.Now().UTC(),
	}
}

// IndividualRecord is the persisted form of an individual.
type IndividualRecord struct {
	ID         int64              `json:"id"`
	ParentID   int64              `json:"parentId"`
	Generation int                `json:"generation"`
	Genome     *genome.Genome     `json:"genome"`
	Scores     map[string]float64 `json:"scores"`
}

// PopulationRecord is the persisted form of one generation. Limits are the
// bounds every genome of the generation was built against; reloaded genomes
// are rebuilt against them so mutation keeps clamping.
type PopulationRecord struct {
	Limits      *genome.Limits     `json:"limits,omitempty"`
	Individuals []IndividualRecord `json:"individuals"`
}

func toRecord(population []*framework.Individual) (PopulationRecord, error) {
	var limits *genome.Limits
	records := make([]IndividualRecord, len(population))
	for i, ind := range population {
		l := ind.Genome.Limits()
		if l == nil {
			return PopulationRecord{}, fmt.Errorf("individual %d has no genome limits", ind.ID)
		}
		if limits == nil {
			c := *l
			limits = &c
		} else if *l != *limits {
			return PopulationRecord{}, fmt.Errorf("individual %d was built against different genome limits", ind.ID)
		}
		records[i] = IndividualRecord{
			ID:         int64(ind.ID),
			ParentID:   int64(ind.ParentID),
			Generation: ind.Generation,
			Genome:     ind.Genome.Clone(),
			Scores:     ind.Scores.Clone(),
		}
	}
	return PopulationRecord{Limits: limits, Individuals: records}, nil
}

func fromRecord(record PopulationRecord) ([]*framework.Individual, error) {
	if len(record.Individuals) > 0 && record.Limits == nil {
		return nil, fmt.Errorf("population has no genome limits")
	}
	population := make([]*framework.Individual, len(record.Individuals))
	for i, r := range record.Individuals {
		if r.Genome == nil {
			return nil, fmt.Errorf("individual %d has no genome", r.ID)
		}
		g, err := genome.New(record.Limits, r.Genome.FlareLength, r.Genome.WaveguideHeight,
			r.Genome.WaveguideLength, r.Genome.WaveguideWidth, r.Genome.Walls)
		if err != nil {
			return nil, fmt.Errorf("individual %d: %w", r.ID, err)
		}
		population[i] = &framework.Individual{
			ID:         framework.ID(r.ID),
			ParentID:   framework.ID(r.ParentID),
			Generation: r.Generation,
			Genome:     g,
			Scores:     framework.Scores(r.Scores).Clone(),
		}
	}
	return population, nil
}
