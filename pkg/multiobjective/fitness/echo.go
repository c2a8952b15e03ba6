// Package fitness provides the objective functions the evolution engine can
// be driven with. None of them simulate the antenna; they exist to exercise
// the selection engine until an electromagnetic evaluator is plugged in.
package fitness

import (
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/genome"
)

const (
	EchoName     = "Echo"
	HornSizeName = "HornSize"

	// HornSizeObjective is the single objective reported by HornSize.
	HornSizeObjective = "horn_size"
)

// Echo reports every gene as its own objective.
type Echo struct{}

func (Echo) Name() string {
	return EchoName
}

func (Echo) Evaluate(g *genome.Genome) (framework.Scores, error) {
	fields := g.Fields()
	scores := make(framework.Scores, len(fields))
	for _, f := range fields {
		scores[f.Name] = f.Value
	}
	return scores, nil
}

// HornSize scores a horn by flare length plus waveguide height.
type HornSize struct{}

func (HornSize) Name() string {
	return HornSizeName
}

func (HornSize) Evaluate(g *genome.Genome) (framework.Scores, error) {
	return framework.Scores{
		HornSizeObjective: g.FlareLength + g.WaveguideHeight,
	}, nil
}
