package multiobjective

import (
	"fmt"
	"math/rand/v2"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/fitness"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

const (
	ProblemName = "HornProblem"
)

// referenceFront is implemented by benchmark evaluators whose optimal front
// is known in closed form.
type referenceFront interface {
	TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint
}

// HornProblem binds the configured gene limits to a fitness function.
type HornProblem struct {
	limits    *genome.Limits
	evaluator framework.Evaluator
}

// NewHornProblem builds the problem described by cfg.
func NewHornProblem(cfg *v1alpha1.RunConfiguration, evaluator framework.Evaluator) (*HornProblem, error) {
	limits, err := LimitsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%s needs a fitness function", ProblemName)
	}
	return &HornProblem{limits: limits, evaluator: evaluator}, nil
}

func (p *HornProblem) Name() string {
	return ProblemName
}

func (p *HornProblem) Limits() *genome.Limits {
	return p.limits
}

func (p *HornProblem) Evaluator() framework.Evaluator {
	return p.evaluator
}

// NewIndividual draws a random genome and scores it.
func (p *HornProblem) NewIndividual(id framework.ID, withRidge bool, rng *rand.Rand) (*framework.Individual, error) {
	g, err := genome.Generate(p.limits, withRidge, rng)
	if err != nil {
		return nil, err
	}
	return framework.NewIndividual(id, framework.NoParent, 0, g, p.evaluator)
}

// TrueParetoFront returns the known optimal front of the fitness function,
// or nil when it has none.
func (p *HornProblem) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	evaluator := p.evaluator
	if cached, ok := evaluator.(*fitness.CachedEvaluator); ok {
		evaluator = cached.Unwrap()
	}
	if ref, ok := evaluator.(referenceFront); ok {
		return ref.TrueParetoFront(numPoints)
	}
	return nil
}

// LimitsFromConfig converts the configured bounds into genome limits.
func LimitsFromConfig(cfg *v1alpha1.RunConfiguration) (*genome.Limits, error) {
	limits := &genome.Limits{NumWallPairs: cfg.NumWallPairs}
	targets := map[string]*genome.Bounds{
		"flareLength":          &limits.FlareLength,
		"waveguideHeight":      &limits.WaveguideHeight,
		"waveguideLength":      &limits.WaveguideLength,
		"waveguideWidth":       &limits.WaveguideWidth,
		"angle":                &limits.Angle,
		"ridgeHeight":          &limits.RidgeHeight,
		"ridgeWidthTop":        &limits.RidgeWidthTop,
		"ridgeWidthBottom":     &limits.RidgeWidthBottom,
		"ridgeThicknessTop":    &limits.RidgeThicknessTop,
		"ridgeThicknessBottom": &limits.RidgeThicknessBottom,
	}
	for _, nb := range cfg.Bounds.Named() {
		if nb.Bound == nil {
			return nil, fmt.Errorf("bounds.%s: Required value", nb.Name)
		}
		*targets[nb.Name] = genome.Bounds{L: nb.Bound.Min, H: nb.Bound.Max}
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	return limits, nil
}
