package genome

import "math/rand/v2"

// Mutate applies bounded Gaussian perturbation in place. Each gene is
// selected independently with probability rate; a selected gene receives
// N(0, effectSize) noise and is clamped back into its bounds. Ridge flags
// are never touched.
func Mutate(g *Genome, rate, effectSize float64, rng *rand.Rand) {
	for _, gn := range g.genes() {
		if rng.Float64() > rate {
			continue
		}
		*gn.value = gn.bounds.Clamp(*gn.value + rng.NormFloat64()*effectSize)
	}
}
