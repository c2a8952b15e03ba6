package genome

import (
	"fmt"
	"math/rand/v2"
)

// Bounds is an inclusive [L, H] range for one gene.
type Bounds struct {
	L float64 `json:"min"`
	H float64 `json:"max"`
}

// Clamp saturates v into the range.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.L {
		return b.L
	}
	if v > b.H {
		return b.H
	}
	return v
}

// Contains reports whether v lies inside the range.
func (b Bounds) Contains(v float64) bool {
	return v >= b.L && v <= b.H
}

// Uniform draws a value uniformly from the range.
func (b Bounds) Uniform(rng *rand.Rand) float64 {
	return b.L + rng.Float64()*(b.H-b.L)
}

// Limits holds the configured bounds of every gene together with the
// number of wall pairs a genome carries.
type Limits struct {
	NumWallPairs int `json:"numWallPairs"`

	FlareLength     Bounds `json:"flareLength"`
	WaveguideHeight Bounds `json:"waveguideHeight"`
	WaveguideLength Bounds `json:"waveguideLength"`
	WaveguideWidth  Bounds `json:"waveguideWidth"`

	Angle                Bounds `json:"angle"`
	RidgeHeight          Bounds `json:"ridgeHeight"`
	RidgeWidthTop        Bounds `json:"ridgeWidthTop"`
	RidgeWidthBottom     Bounds `json:"ridgeWidthBottom"`
	RidgeThicknessTop    Bounds `json:"ridgeThicknessTop"`
	RidgeThicknessBottom Bounds `json:"ridgeThicknessBottom"`
}

// Validate checks that the limits describe a generable genome.
func (l *Limits) Validate() error {
	if l == nil {
		return fmt.Errorf("genome limits are required")
	}
	if l.NumWallPairs <= 0 {
		return fmt.Errorf("number of wall pairs must be greater than zero (got %d)", l.NumWallPairs)
	}
	named := []struct {
		name string
		b    Bounds
	}{
		{"flareLength", l.FlareLength},
		{"waveguideHeight", l.WaveguideHeight},
		{"waveguideLength", l.WaveguideLength},
		{"waveguideWidth", l.WaveguideWidth},
		{"angle", l.Angle},
		{"ridgeHeight", l.RidgeHeight},
		{"ridgeWidthTop", l.RidgeWidthTop},
		{"ridgeWidthBottom", l.RidgeWidthBottom},
		{"ridgeThicknessTop", l.RidgeThicknessTop},
		{"ridgeThicknessBottom", l.RidgeThicknessBottom},
	}
	for _, n := range named {
		if n.b.L > n.b.H {
			return fmt.Errorf("bounds for %s are inverted: min %g > max %g", n.name, n.b.L, n.b.H)
		}
	}
	return nil
}
