// Package genome holds the parametric horn antenna representation that the
// evolution engine mutates: four scalar horn dimensions plus a fixed number
// of wall pairs, each optionally carrying a ridge.
package genome

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// ErrMalformedWalls is returned when a genome is constructed from an
// invalid wall pair collection.
var ErrMalformedWalls = errors.New("malformed wall pair collection")

// WallPair describes the two opposite walls of the horn.
type WallPair struct {
	HasRidge             bool    `json:"hasRidge"`
	Angle                float64 `json:"angle"`
	RidgeHeight          float64 `json:"ridgeHeight"`
	RidgeWidthTop        float64 `json:"ridgeWidthTop"`
	RidgeWidthBottom     float64 `json:"ridgeWidthBottom"`
	RidgeThicknessTop    float64 `json:"ridgeThicknessTop"`
	RidgeThicknessBottom float64 `json:"ridgeThicknessBottom"`
}

// Genome is one candidate horn design.
type Genome struct {
	FlareLength     float64     `json:"flareLength"`
	WaveguideHeight float64     `json:"waveguideHeight"`
	WaveguideLength float64     `json:"waveguideLength"`
	WaveguideWidth  float64     `json:"waveguideWidth"`
	Walls           []*WallPair `json:"walls"`

	limits *Limits
}

// Field is a named view of a single gene value.
type Field struct {
	Name   string
	Value  float64
	Bounds Bounds
}

// gene binds a mutable value to its bounds. The order produced by genes is
// the order in which mutation consumes randomness.
type gene struct {
	name   string
	value  *float64
	bounds Bounds
}

// New builds a genome from explicit values. Scalar values are clamped into
// their bounds; walls must contain exactly limits.NumWallPairs non-nil entries.
func New(limits *Limits, flareLength, waveguideHeight, waveguideLength, waveguideWidth float64, walls []*WallPair) (*Genome, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if len(walls) != limits.NumWallPairs {
		return nil, fmt.Errorf("%w: expected %d wall pairs, got %d", ErrMalformedWalls, limits.NumWallPairs, len(walls))
	}
	for i, wp := range walls {
		if wp == nil {
			return nil, fmt.Errorf("%w: wall pair %d is nil", ErrMalformedWalls, i)
		}
	}

	g := &Genome{
		FlareLength:     flareLength,
		WaveguideHeight: waveguideHeight,
		WaveguideLength: waveguideLength,
		WaveguideWidth:  waveguideWidth,
		Walls:           make([]*WallPair, len(walls)),
		limits:          limits,
	}
	for i, wp := range walls {
		c := *wp
		g.Walls[i] = &c
	}
	g.clamp()
	return g, nil
}

// Generate draws a random genome. When withRidge is true every wall pair
// carries an active ridge whose dimensions are never exactly zero.
func Generate(limits *Limits, withRidge bool, rng *rand.Rand) (*Genome, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}

	g := &Genome{
		FlareLength:     limits.FlareLength.Uniform(rng),
		WaveguideHeight: limits.WaveguideHeight.Uniform(rng),
		WaveguideLength: limits.WaveguideLength.Uniform(rng),
		WaveguideWidth:  limits.WaveguideWidth.Uniform(rng),
		Walls:           make([]*WallPair, limits.NumWallPairs),
		limits:          limits,
	}
	for i := range g.Walls {
		wp, err := generateWallPair(limits, withRidge, rng)
		if err != nil {
			return nil, err
		}
		g.Walls[i] = wp
	}
	return g, nil
}

// maxZeroResamples bounds the resample loop for degenerate [0, 0] ridge ranges.
const maxZeroResamples = 1000

func generateWallPair(limits *Limits, withRidge bool, rng *rand.Rand) (*WallPair, error) {
	wp := &WallPair{
		Angle:                limits.Angle.Uniform(rng),
		RidgeHeight:          limits.RidgeHeight.Uniform(rng),
		RidgeWidthTop:        limits.RidgeWidthTop.Uniform(rng),
		RidgeWidthBottom:     limits.RidgeWidthBottom.Uniform(rng),
		RidgeThicknessTop:    limits.RidgeThicknessTop.Uniform(rng),
		RidgeThicknessBottom: limits.RidgeThicknessBottom.Uniform(rng),
	}
	if !withRidge {
		return wp, nil
	}

	ridge := []struct {
		value  *float64
		bounds Bounds
	}{
		{&wp.RidgeHeight, limits.RidgeHeight},
		{&wp.RidgeWidthTop, limits.RidgeWidthTop},
		{&wp.RidgeWidthBottom, limits.RidgeWidthBottom},
		{&wp.RidgeThicknessTop, limits.RidgeThicknessTop},
		{&wp.RidgeThicknessBottom, limits.RidgeThicknessBottom},
	}
	for _, r := range ridge {
		for attempt := 0; *r.value == 0; attempt++ {
			if attempt == maxZeroResamples {
				return nil, fmt.Errorf("cannot draw a non-zero ridge value from [%g, %g]", r.bounds.L, r.bounds.H)
			}
			*r.value = r.bounds.Uniform(rng)
		}
	}
	wp.HasRidge = true
	return wp, nil
}

// Limits returns the bounds the genome was built against.
func (g *Genome) Limits() *Limits {
	return g.limits
}

// Clone returns a deep copy sharing only the read-only limits.
func (g *Genome) Clone() *Genome {
	c := *g
	c.Walls = make([]*WallPair, len(g.Walls))
	for i, wp := range g.Walls {
		w := *wp
		c.Walls[i] = &w
	}
	return &c
}

// unbounded stands in for the limits of genomes built as struct literals.
var unbounded = func() *Limits {
	all := Bounds{L: math.Inf(-1), H: math.Inf(1)}
	return &Limits{
		FlareLength: all, WaveguideHeight: all, WaveguideLength: all, WaveguideWidth: all,
		Angle: all, RidgeHeight: all, RidgeWidthTop: all, RidgeWidthBottom: all,
		RidgeThicknessTop: all, RidgeThicknessBottom: all,
	}
}()

func (g *Genome) genes() []gene {
	l := g.limits
	if l == nil {
		l = unbounded
	}
	genes := make([]gene, 0, 4+6*len(g.Walls))
	genes = append(genes,
		gene{"flare_length", &g.FlareLength, l.FlareLength},
		gene{"waveguide_height", &g.WaveguideHeight, l.WaveguideHeight},
		gene{"waveguide_length", &g.WaveguideLength, l.WaveguideLength},
		gene{"waveguide_width", &g.WaveguideWidth, l.WaveguideWidth},
	)
	for i, wp := range g.Walls {
		prefix := fmt.Sprintf("wp%d_", i)
		genes = append(genes,
			gene{prefix + "angle", &wp.Angle, l.Angle},
			gene{prefix + "ridge_height", &wp.RidgeHeight, l.RidgeHeight},
			gene{prefix + "ridge_width_top", &wp.RidgeWidthTop, l.RidgeWidthTop},
			gene{prefix + "ridge_width_bottom", &wp.RidgeWidthBottom, l.RidgeWidthBottom},
			gene{prefix + "ridge_thickness_top", &wp.RidgeThicknessTop, l.RidgeThicknessTop},
			gene{prefix + "ridge_thickness_bottom", &wp.RidgeThicknessBottom, l.RidgeThicknessBottom},
		)
	}
	return genes
}

func (g *Genome) clamp() {
	for _, gn := range g.genes() {
		*gn.value = gn.bounds.Clamp(*gn.value)
	}
}

// Fields lists every continuous gene in mutation order.
func (g *Genome) Fields() []Field {
	genes := g.genes()
	fields := make([]Field, len(genes))
	for i, gn := range genes {
		fields[i] = Field{Name: gn.name, Value: *gn.value, Bounds: gn.bounds}
	}
	return fields
}

// InBounds reports whether every gene lies within its bounds.
func (g *Genome) InBounds() bool {
	for _, gn := range g.genes() {
		if !gn.bounds.Contains(*gn.value) {
			return false
		}
	}
	return true
}

// Fingerprint hashes the gene values and ridge flags. Equal genomes share
// a fingerprint.
func (g *Genome) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, gn := range g.genes() {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(*gn.value))
		_, _ = h.Write(buf[:])
	}
	for _, wp := range g.Walls {
		if wp.HasRidge {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	return h.Sum64()
}
