package multiobjective

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/algorithms"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/fitness"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/storage"
)

func bound(min, max float64) *v1alpha1.Bound {
	return &v1alpha1.Bound{Min: min, Max: max}
}

func testConfig() *v1alpha1.RunConfiguration {
	cfg := &v1alpha1.RunConfiguration{
		RandomSeed:           ptr.To[uint64](42),
		PopulationSize:       10,
		NumGenerations:       6,
		PerSiteMutationRate:  ptr.To(0.3),
		MutationEffectSize:   ptr.To(0.5),
		FractionWithoutRidge: ptr.To(0.3),
		NumWallPairs:         4,
		Bounds: v1alpha1.GenomeBounds{
			FlareLength:          bound(1, 5),
			WaveguideHeight:      bound(0.5, 1),
			WaveguideLength:      bound(0.5, 1),
			WaveguideWidth:       bound(0.5, 1),
			Angle:                bound(0, 45),
			RidgeHeight:          bound(0, 0.2),
			RidgeWidthTop:        bound(0, 0.2),
			RidgeWidthBottom:     bound(0, 0.2),
			RidgeThicknessTop:    bound(0, 0.2),
			RidgeThicknessBottom: bound(0, 0.2),
		},
	}
	v1alpha1.SetDefaults_RunConfiguration(cfg)
	return cfg
}

// lineage is the reproducible part of a generation.
type lineage struct {
	ID         framework.ID
	ParentID   framework.ID
	Generation int
	Scores     framework.Scores
}

type recorder struct {
	generations []int
	lineages    [][]lineage
	populations [][]*framework.Individual
}

func (r *recorder) Observe(_ context.Context, generation int, population []*framework.Individual) error {
	r.generations = append(r.generations, generation)
	r.populations = append(r.populations, population)
	l := make([]lineage, len(population))
	for i, ind := range population {
		l[i] = lineage{ind.ID, ind.ParentID, ind.Generation, ind.Scores.Clone()}
	}
	r.lineages = append(r.lineages, l)
	return nil
}

func runRecorded(t *testing.T, cfg *v1alpha1.RunConfiguration, opts ...Option) *recorder {
	t.Helper()
	rec := &recorder{}
	m, err := NewManager(context.Background(), cfg, append(opts, WithObserver(rec))...)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))
	return rec
}

func TestNewManagerErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*v1alpha1.RunConfiguration)
	}{
		{name: "invalid selection scheme", mutate: func(c *v1alpha1.RunConfiguration) { c.SelectionScheme = "Roulette" }},
		{name: "invalid population size", mutate: func(c *v1alpha1.RunConfiguration) { c.PopulationSize = 0 }},
		{name: "missing bound", mutate: func(c *v1alpha1.RunConfiguration) { c.Bounds.Angle = nil }},
		{name: "missing mutation rate", mutate: func(c *v1alpha1.RunConfiguration) { c.PerSiteMutationRate = nil }},
		{name: "missing seed", mutate: func(c *v1alpha1.RunConfiguration) { c.RandomSeed = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			_, err := NewManager(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestInitializePopulation(t *testing.T) {
	m, err := NewManager(context.Background(), testConfig())
	require.NoError(t, err)
	require.NoError(t, m.InitializePopulation())

	population := m.Population()
	require.Len(t, population, 10)
	for i, ind := range population {
		assert.Equal(t, framework.ID(i), ind.ID)
		assert.Equal(t, framework.NoParent, ind.ParentID)
		assert.Equal(t, 0, ind.Generation)
		assert.Len(t, ind.Genome.Walls, 4)
		assert.True(t, ind.Genome.InBounds())

		// 10 - int(10*0.3) individuals with ridges come first
		for _, wp := range ind.Genome.Walls {
			assert.Equal(t, i < 7, wp.HasRidge, "individual %d", i)
		}
	}
	assert.Equal(t, int64(10), m.Evaluations())
}

func TestInitializePopulationFractions(t *testing.T) {
	for _, fraction := range []float64{0, 1} {
		cfg := testConfig()
		cfg.FractionWithoutRidge = ptr.To(fraction)
		m, err := NewManager(context.Background(), cfg)
		require.NoError(t, err)
		require.NoError(t, m.InitializePopulation())

		for _, ind := range m.Population() {
			assert.Equal(t, fraction == 0, ind.Genome.Walls[0].HasRidge)
		}
	}
}

func TestRun(t *testing.T) {
	for _, replacement := range []v1alpha1.ReplacementStrategy{v1alpha1.ReplacementGenerational, v1alpha1.ReplacementElitist} {
		t.Run(string(replacement), func(t *testing.T) {
			cfg := testConfig()
			cfg.Replacement = replacement
			rec := runRecorded(t, cfg)

			assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, rec.generations)

			seen := map[framework.ID]bool{}
			var maxID framework.ID = -1
			for g, population := range rec.populations {
				require.Len(t, population, cfg.PopulationSize)
				for _, ind := range population {
					assert.True(t, ind.Genome.InBounds(), "individual %d out of bounds", ind.ID)
					assert.LessOrEqual(t, ind.Generation, g)
					if g == 0 || ind.Generation < g {
						continue
					}
					// offspring of this generation descend from the previous one
					assert.Contains(t, ids(rec.populations[g-1]), ind.ParentID)
					assert.False(t, seen[ind.ID], "id %d reused", ind.ID)
					assert.Greater(t, ind.ID, maxID)
					seen[ind.ID] = true
				}
				for _, ind := range population {
					if ind.ID > maxID {
						maxID = ind.ID
					}
				}
			}
		})
	}
}

func TestRunGenerationalReplacesEveryone(t *testing.T) {
	rec := runRecorded(t, testConfig())
	for g := 1; g < len(rec.populations); g++ {
		for _, ind := range rec.populations[g] {
			assert.Equal(t, g, ind.Generation)
		}
	}
}

func TestRunReproducible(t *testing.T) {
	a := runRecorded(t, testConfig())
	b := runRecorded(t, testConfig())
	if diff := cmp.Diff(a.lineages, b.lineages); diff != "" {
		t.Errorf("runs with the same seed differ (-first +second):\n%s", diff)
	}

	cfg := testConfig()
	cfg.RandomSeed = ptr.To[uint64](43)
	c := runRecorded(t, cfg)
	assert.NotEqual(t, a.lineages, c.lineages)
}

func TestRunCachedFitnessIsTransparent(t *testing.T) {
	plain := runRecorded(t, testConfig())

	cfg := testConfig()
	cfg.CacheFitness = true
	cached := runRecorded(t, cfg)

	if diff := cmp.Diff(plain.lineages, cached.lineages); diff != "" {
		t.Errorf("fitness cache changed the run (-plain +cached):\n%s", diff)
	}
}

func TestCacheStats(t *testing.T) {
	cfg := testConfig()
	cfg.CacheFitness = true
	cfg.PerSiteMutationRate = ptr.To(0.0)
	m, err := NewManager(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, m.Run(context.Background()))

	// without mutation every offspring is an exact copy of a scored genome
	hits, misses, ok := m.CacheStats()
	require.True(t, ok)
	assert.Equal(t, 10, misses)
	assert.Equal(t, 50, hits)

	plain, err := NewManager(context.Background(), testConfig())
	require.NoError(t, err)
	_, _, ok = plain.CacheStats()
	assert.False(t, ok)
}

func TestRunWithStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init(ctx))

	cfg := testConfig()
	run := storage.NewRunRecord(*cfg.RandomSeed, cfg.FitnessFunction, cfg.PopulationSize, cfg.NumGenerations)
	rec := runRecorded(t, cfg, WithStore(store, run))

	_, ok, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	for g := 0; g < cfg.NumGenerations; g++ {
		population, ok, err := store.GetPopulation(ctx, run.ID, g)
		require.NoError(t, err)
		require.True(t, ok, "generation %d", g)
		assert.Equal(t, ids(rec.populations[g]), ids(population))
	}
}

func TestRunWithEvaluator(t *testing.T) {
	cfg := testConfig()
	rec := runRecorded(t, cfg, WithEvaluator(fitness.HornSize{}))
	for _, ind := range rec.populations[len(rec.populations)-1] {
		assert.Equal(t, []string{fitness.HornSizeObjective}, ind.Scores.Names())
	}
}

func TestRunStopsOnObserverError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m, err := NewManager(context.Background(), testConfig(), WithObserver(ObserverFunc(
		func(_ context.Context, generation int, _ []*framework.Individual) error {
			calls++
			if generation == 2 {
				return boom
			}
			return nil
		})))
	require.NoError(t, err)

	err = m.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m, err := NewManager(ctx, testConfig(), WithObserver(ObserverFunc(
		func(context.Context, int, []*framework.Individual) error {
			cancel()
			return nil
		})))
	require.NoError(t, err)

	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestEvolveOneGenerationRequiresPopulation(t *testing.T) {
	m, err := NewManager(context.Background(), testConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, m.EvolveOneGeneration(context.Background(), 1), framework.ErrEmptyPopulation)
	assert.Equal(t, algorithms.Name, m.Algorithm().Name())
}

func TestLimitsFromConfig(t *testing.T) {
	limits, err := LimitsFromConfig(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, limits.NumWallPairs)
	assert.Equal(t, genome.Bounds{L: 1, H: 5}, limits.FlareLength)
	assert.Equal(t, genome.Bounds{L: 0, H: 45}, limits.Angle)
	assert.Equal(t, genome.Bounds{L: 0, H: 0.2}, limits.RidgeThicknessBottom)

	cfg := testConfig()
	cfg.Bounds.RidgeWidthTop = nil
	_, err = LimitsFromConfig(cfg)
	assert.Error(t, err)
}

func TestTrueParetoFront(t *testing.T) {
	p, err := NewHornProblem(testConfig(), fitness.NewZDT1())
	require.NoError(t, err)
	assert.Len(t, p.TrueParetoFront(10), 10)

	p, err = NewHornProblem(testConfig(), fitness.Echo{})
	require.NoError(t, err)
	assert.Nil(t, p.TrueParetoFront(10))
}

func ids(population []*framework.Individual) []framework.ID {
	out := make([]framework.ID, len(population))
	for i, ind := range population {
		out[i] = ind.ID
	}
	return out
}
