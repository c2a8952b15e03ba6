// Package multiobjective drives an evolution run: it owns the random stream,
// the id source and the current population, and hands every generation to
// the configured observers.
package multiobjective

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
	"github.com/genetis-rhino/hornevo/apis/config/validation"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/algorithms"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/fitness"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/storage"
)

// Observer is notified after every generation, including the founding one.
type Observer interface {
	Observe(ctx context.Context, generation int, population []*framework.Individual) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx context.Context, generation int, population []*framework.Individual) error

func (f ObserverFunc) Observe(ctx context.Context, generation int, population []*framework.Individual) error {
	return f(ctx, generation, population)
}

// Manager runs one evolution.
type Manager struct {
	cfg       *v1alpha1.RunConfiguration
	logger    logr.Logger
	rng       *rand.Rand
	ids       *framework.IDSource
	problem   *HornProblem
	algorithm framework.Algorithm
	evaluator framework.Evaluator

	store     storage.Store
	run       storage.RunRecord
	observers []Observer

	population []*framework.Individual
}

type Option func(*Manager)

// WithEvaluator replaces the configured fitness function.
func WithEvaluator(evaluator framework.Evaluator) Option {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// WithObserver registers an observer. Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observers = append(m.observers, o)
	}
}

// WithStore snapshots every generation of run into store.
func WithStore(store storage.Store, run storage.RunRecord) Option {
	return func(m *Manager) {
		m.store = store
		m.run = run
	}
}

// WithLogger overrides the logger taken from the context.
func WithLogger(logger logr.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager validates cfg and prepares a run seeded from cfg.RandomSeed.
// Required parameters are dereferenced only after validation.
func NewManager(ctx context.Context, cfg *v1alpha1.RunConfiguration, opts ...Option) (*Manager, error) {
	if err := validation.ValidateRunConfiguration(cfg, fitness.Names); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:    cfg,
		logger: klog.FromContext(ctx),
		rng:    rand.New(rand.NewPCG(*cfg.RandomSeed, *cfg.RandomSeed)),
		ids:    framework.NewIDSource(0),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.evaluator == nil {
		evaluator, err := fitness.ByName(cfg.FitnessFunction)
		if err != nil {
			return nil, err
		}
		m.evaluator = evaluator
	}
	if cfg.CacheFitness {
		m.evaluator = fitness.Cached(m.evaluator, 0)
	}

	problem, err := NewHornProblem(cfg, m.evaluator)
	if err != nil {
		return nil, err
	}
	m.problem = problem

	switch cfg.SelectionScheme {
	case v1alpha1.SelectionSchemeNSGAII:
		nsga := algorithms.NewNSGAII(m.evaluator, m.ids, *cfg.PerSiteMutationRate, *cfg.MutationEffectSize)
		nsga.Replacement = algorithms.Replacement(cfg.Replacement)
		m.algorithm = nsga
	default:
		return nil, fmt.Errorf("invalid selection scheme %q", cfg.SelectionScheme)
	}

	if m.store != nil {
		if err := m.store.SaveRun(ctx, m.run); err != nil {
			return nil, fmt.Errorf("save run %s: %w", m.run.ID, err)
		}
		m.observers = append(m.observers, ObserverFunc(m.snapshot))
	}

	m.logger.V(5).Info("Created manager", "algorithm", m.algorithm.Name(), "fitnessFunction", m.evaluator.Name(), "seed", *cfg.RandomSeed)
	return m, nil
}

// InitializePopulation replaces the population with a random founding
// generation. The first individuals carry ridges; the last
// fractionWithoutRidge share of the population does not.
func (m *Manager) InitializePopulation() error {
	size := m.cfg.PopulationSize
	withoutRidge := int(float64(size) * *m.cfg.FractionWithoutRidge)
	withRidge := size - withoutRidge

	population := make([]*framework.Individual, 0, size)
	for i := 0; i < size; i++ {
		ind, err := m.problem.NewIndividual(m.ids.Next(), i < withRidge, m.rng)
		if err != nil {
			return fmt.Errorf("initialize population: %w", err)
		}
		population = append(population, ind)
	}
	m.population = population

	m.logger.V(2).Info("Initialized population", "size", size, "withRidge", withRidge, "withoutRidge", withoutRidge)
	return nil
}

// EvolveOneGeneration replaces the population with generation number
// generation.
func (m *Manager) EvolveOneGeneration(ctx context.Context, generation int) error {
	next, err := m.algorithm.Evolve(klog.NewContext(ctx, m.logger), m.population, generation, m.rng)
	if err != nil {
		return fmt.Errorf("evolve generation %d: %w", generation, err)
	}
	m.population = next
	return nil
}

// Run creates the founding generation and evolves it until the configured
// number of generations exists. Observers see every generation.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.InitializePopulation(); err != nil {
		return err
	}
	if err := m.observe(ctx, 0); err != nil {
		return err
	}

	for generation := 1; generation < m.cfg.NumGenerations; generation++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.EvolveOneGeneration(ctx, generation); err != nil {
			return err
		}
		if err := m.observe(ctx, generation); err != nil {
			return err
		}
		m.logger.V(2).Info("Evolved generation", "generation", generation, "nextID", m.ids.Peek())
	}
	return nil
}

func (m *Manager) observe(ctx context.Context, generation int) error {
	ctx = klog.NewContext(ctx, m.logger)
	for _, o := range m.observers {
		if err := o.Observe(ctx, generation, m.population); err != nil {
			return fmt.Errorf("observe generation %d: %w", generation, err)
		}
	}
	return nil
}

func (m *Manager) snapshot(ctx context.Context, generation int, population []*framework.Individual) error {
	return m.store.SavePopulation(ctx, m.run.ID, generation, population)
}

// Population returns the current generation.
func (m *Manager) Population() []*framework.Individual {
	return append([]*framework.Individual(nil), m.population...)
}

func (m *Manager) Problem() *HornProblem {
	return m.problem
}

func (m *Manager) Algorithm() framework.Algorithm {
	return m.algorithm
}

// Evaluations returns how many individuals have been created, each costing
// one fitness evaluation unless the fitness cache answered it.
func (m *Manager) Evaluations() int64 {
	return int64(m.ids.Peek())
}

// CacheStats reports fitness cache hits and misses. ok is false when the
// cache is disabled.
func (m *Manager) CacheStats() (hits, misses int, ok bool) {
	cached, ok := m.evaluator.(*fitness.CachedEvaluator)
	if !ok {
		return 0, 0, false
	}
	hits, misses = cached.Stats()
	return hits, misses, true
}
