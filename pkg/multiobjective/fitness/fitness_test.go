package fitness

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

func limits() *genome.Limits {
	return &genome.Limits{
		NumWallPairs:         4,
		FlareLength:          genome.Bounds{L: 10, H: 50},
		WaveguideHeight:      genome.Bounds{L: 2, H: 10},
		WaveguideLength:      genome.Bounds{L: 1, H: 10},
		WaveguideWidth:       genome.Bounds{L: 2, H: 10},
		Angle:                genome.Bounds{L: 0, H: 90},
		RidgeHeight:          genome.Bounds{L: 0, H: 1},
		RidgeWidthTop:        genome.Bounds{L: 0, H: 1},
		RidgeWidthBottom:     genome.Bounds{L: 0, H: 1},
		RidgeThicknessTop:    genome.Bounds{L: 0, H: 1},
		RidgeThicknessBottom: genome.Bounds{L: 0, H: 1},
	}
}

func generate(t *testing.T, seed uint64) *genome.Genome {
	t.Helper()
	g, err := genome.Generate(limits(), true, rand.New(rand.NewPCG(seed, seed)))
	require.NoError(t, err)
	return g
}

func TestEchoMirrorsGenes(t *testing.T) {
	g := generate(t, 1)
	scores, err := Echo{}.Evaluate(g)
	require.NoError(t, err)

	assert.Len(t, scores, 4+6*4)
	assert.Equal(t, g.FlareLength, scores["flare_length"])
	assert.Equal(t, g.Walls[3].RidgeThicknessBottom, scores["wp3_ridge_thickness_bottom"])

	other, err := Echo{}.Evaluate(generate(t, 2))
	require.NoError(t, err)
	assert.Equal(t, scores.Names(), other.Names())
}

func TestHornSize(t *testing.T) {
	g := generate(t, 3)
	scores, err := HornSize{}.Evaluate(g)
	require.NoError(t, err)
	assert.Equal(t, framework.Scores{HornSizeObjective: g.FlareLength + g.WaveguideHeight}, scores)
}

func TestZDT1(t *testing.T) {
	g, err := genome.New(limits(), 10, 2, 1, 2, []*genome.WallPair{{}, {}, {}, {}})
	require.NoError(t, err)

	scores, err := NewZDT1().Evaluate(g)
	require.NoError(t, err)
	// all decision variables at their lower bound lie on the true front
	assert.Equal(t, 0.0, scores[ZDT1F1])
	assert.Equal(t, 1.0, scores[ZDT1F2])

	front := NewZDT1().TrueParetoFront(11)
	require.Len(t, front, 11)
	assert.InDelta(t, 1-math.Sqrt(0.5), front[5][1], 1e-12)
}

func TestCachedEvaluator(t *testing.T) {
	calls := 0
	inner := framework.EvaluatorFunc(func(g *genome.Genome) (framework.Scores, error) {
		calls++
		return framework.Scores{"size": g.FlareLength}, nil
	})
	c := Cached(inner, 0)

	g := generate(t, 4)
	first, err := c.Evaluate(g)
	require.NoError(t, err)
	second, err := c.Evaluate(g.Clone())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	second["size"] = -1
	third, err := c.Evaluate(g)
	require.NoError(t, err)
	assert.Equal(t, g.FlareLength, third["size"])

	hits, misses := c.Stats()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, "func", c.Name())
	assert.NotNil(t, c.Unwrap())
}

func TestCachedEvaluatorConcurrentStats(t *testing.T) {
	var calls atomic.Int64
	inner := framework.EvaluatorFunc(func(g *genome.Genome) (framework.Scores, error) {
		calls.Add(1)
		return framework.Scores{"size": g.FlareLength}, nil
	})
	c := Cached(inner, 0)

	g := generate(t, 4)
	_, err := c.Evaluate(g)
	require.NoError(t, err)

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(g *genome.Genome) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, _ = c.Evaluate(g)
			}
		}(g.Clone())
	}
	wg.Wait()

	hits, misses := c.Stats()
	assert.Equal(t, workers*perWorker, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, int64(1), calls.Load())
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		e, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, e.Name())
	}
	_, err := ByName("Simulated")
	assert.Error(t, err)
}
