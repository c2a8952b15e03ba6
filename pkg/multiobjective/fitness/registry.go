package fitness

import (
	"fmt"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
)

// Names lists the evaluators ByName knows about.
var Names = []string{EchoName, HornSizeName, ZDT1Name}

// ByName resolves a configured fitness function.
func ByName(name string) (framework.Evaluator, error) {
	switch name {
	case EchoName:
		return Echo{}, nil
	case HornSizeName:
		return HornSize{}, nil
	case ZDT1Name:
		return NewZDT1(), nil
	}
	return nil, fmt.Errorf("unknown fitness function %q", name)
}
