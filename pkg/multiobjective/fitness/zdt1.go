package fitness

import (
	"math"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

const (
	ZDT1Name = "ZDT1"

	ZDT1F1 = "f1"
	ZDT1F2 = "f2"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
//
// The decision variables are the genome genes normalized into [0, 1] by
// their bounds, in mutation order; the flare length drives f1.
type ZDT1 struct{}

func NewZDT1() *ZDT1 {
	return &ZDT1{}
}

func (p *ZDT1) Name() string {
	return ZDT1Name
}

func (p *ZDT1) Evaluate(g *genome.Genome) (framework.Scores, error) {
	x := normalized(g)
	return framework.Scores{
		ZDT1F1: p.f1(x),
		ZDT1F2: p.f2(x),
	}, nil
}

func (p *ZDT1) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT1) f2(x []float64) float64 {
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return g * (1.0 - math.Sqrt(x[0]/g))
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	if numPoints < 2 {
		return nil
	}
	points := make([]framework.ObjectiveSpacePoint, numPoints)
	for i := 0; i < numPoints; i++ {
		x := float64(i) / float64(numPoints-1)
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}

func normalized(g *genome.Genome) []float64 {
	fields := g.Fields()
	x := make([]float64, len(fields))
	for i, f := range fields {
		span := f.Bounds.H - f.Bounds.L
		if span == 0 {
			continue
		}
		x[i] = (f.Value - f.Bounds.L) / span
	}
	return x
}
