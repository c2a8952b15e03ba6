package fitness

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

// CachedEvaluator memoizes another evaluator by genome fingerprint. It is
// safe for concurrent use when the wrapped evaluator is.
type CachedEvaluator struct {
	inner framework.Evaluator
	cache *cache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// Cached wraps evaluator so that genomes with identical genes are only
// evaluated once per ttl. A non-positive ttl keeps entries for the whole run.
func Cached(evaluator framework.Evaluator, ttl time.Duration) *CachedEvaluator {
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &CachedEvaluator{
		inner: evaluator,
		cache: cache.New(ttl, cleanup),
	}
}

func (c *CachedEvaluator) Name() string {
	return c.inner.Name()
}

func (c *CachedEvaluator) Evaluate(g *genome.Genome) (framework.Scores, error) {
	key := strconv.FormatUint(g.Fingerprint(), 16)
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v.(framework.Scores).Clone(), nil
	}

	c.misses.Add(1)
	scores, err := c.inner.Evaluate(g)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, scores.Clone())
	return scores, nil
}

// Unwrap returns the memoized evaluator.
func (c *CachedEvaluator) Unwrap() framework.Evaluator {
	return c.inner
}

// Stats returns the cache hit and miss counts.
func (c *CachedEvaluator) Stats() (hits, misses int) {
	return int(c.hits.Load()), int(c.misses.Load())
}
