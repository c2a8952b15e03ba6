package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
)

var fitnessFunctions = []string{"Echo", "HornSize", "ZDT1"}

func bound(min, max float64) *v1alpha1.Bound {
	return &v1alpha1.Bound{Min: min, Max: max}
}

func validConfig() *v1alpha1.RunConfiguration {
	cfg := &v1alpha1.RunConfiguration{
		RandomSeed:           ptr.To[uint64](1),
		PopulationSize:       10,
		NumGenerations:       5,
		PerSiteMutationRate:  ptr.To(0.2),
		MutationEffectSize:   ptr.To(0.1),
		FractionWithoutRidge: ptr.To(0.5),
		NumWallPairs:         4,
		Bounds: v1alpha1.GenomeBounds{
			FlareLength:          bound(1, 2),
			WaveguideHeight:      bound(0, 1),
			WaveguideLength:      bound(0, 1),
			WaveguideWidth:       bound(0, 1),
			Angle:                bound(0, 90),
			RidgeHeight:          bound(0, 1),
			RidgeWidthTop:        bound(0, 1),
			RidgeWidthBottom:     bound(0, 1),
			RidgeThicknessTop:    bound(0, 1),
			RidgeThicknessBottom: bound(0, 1),
		},
	}
	v1alpha1.SetDefaults_RunConfiguration(cfg)
	return cfg
}

func TestValidateRunConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*v1alpha1.RunConfiguration)
		wantErr []string
	}{
		{
			name:   "valid",
			mutate: func(*v1alpha1.RunConfiguration) {},
		},
		{
			name:   "elitist replacement",
			mutate: func(c *v1alpha1.RunConfiguration) { c.Replacement = v1alpha1.ReplacementElitist },
		},
		{
			name:    "zero population",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.PopulationSize = 0 },
			wantErr: []string{"populationSize"},
		},
		{
			name:    "negative generations",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.NumGenerations = -1 },
			wantErr: []string{"numGenerations"},
		},
		{
			name:    "no wall pairs",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.NumWallPairs = 0 },
			wantErr: []string{"numWallPairs"},
		},
		{
			name:    "mutation rate above one",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.PerSiteMutationRate = ptr.To(1.5) },
			wantErr: []string{"perSiteMutationRate"},
		},
		{
			name:    "negative fraction without ridge",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.FractionWithoutRidge = ptr.To(-0.1) },
			wantErr: []string{"fractionWithoutRidge"},
		},
		{
			name:    "infinite effect size",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.MutationEffectSize = ptr.To(math.Inf(1)) },
			wantErr: []string{"mutationEffectSize"},
		},
		{
			name:   "zero seed",
			mutate: func(c *v1alpha1.RunConfiguration) { c.RandomSeed = ptr.To[uint64](0) },
		},
		{
			name:    "missing random seed",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.RandomSeed = nil },
			wantErr: []string{"randomSeed", "Required"},
		},
		{
			name:    "missing mutation rate",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.PerSiteMutationRate = nil },
			wantErr: []string{"perSiteMutationRate", "Required"},
		},
		{
			name:    "missing effect size",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.MutationEffectSize = nil },
			wantErr: []string{"mutationEffectSize", "Required"},
		},
		{
			name:    "missing fraction without ridge",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.FractionWithoutRidge = nil },
			wantErr: []string{"fractionWithoutRidge", "Required"},
		},
		{
			name:    "unknown selection scheme",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.SelectionScheme = "Roulette" },
			wantErr: []string{"selectionScheme", "Roulette"},
		},
		{
			name:    "unknown replacement",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.Replacement = "Steady" },
			wantErr: []string{"replacement"},
		},
		{
			name:    "unknown fitness function",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.FitnessFunction = "Gain" },
			wantErr: []string{"fitnessFunction"},
		},
		{
			name:    "missing bound",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.Bounds.RidgeHeight = nil },
			wantErr: []string{"bounds.ridgeHeight", "Required"},
		},
		{
			name:    "inverted bound",
			mutate:  func(c *v1alpha1.RunConfiguration) { c.Bounds.Angle = bound(10, 5) },
			wantErr: []string{"bounds.angle.min"},
		},
		{
			name: "plot objectives",
			mutate: func(c *v1alpha1.RunConfiguration) {
				c.Output.Plot = true
				c.Output.PlotObjectives = []string{"f1"}
			},
			wantErr: []string{"output.plotObjectives"},
		},
		{
			name: "every error is reported",
			mutate: func(c *v1alpha1.RunConfiguration) {
				c.PopulationSize = 0
				c.Bounds.FlareLength = nil
			},
			wantErr: []string{"populationSize", "bounds.flareLength"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateRunConfiguration(cfg, fitnessFunctions)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestValidateDecodedConfigurationWithoutRequiredParameters(t *testing.T) {
	cfg, err := v1alpha1.Decode([]byte(`
populationSize: 10
numGenerations: 5
numWallPairs: 2
bounds:
  flareLength: {min: 0, max: 1}
  waveguideHeight: {min: 0, max: 1}
  waveguideLength: {min: 0, max: 1}
  waveguideWidth: {min: 0, max: 1}
  angle: {min: 0, max: 1}
  ridgeHeight: {min: 0, max: 1}
  ridgeWidthTop: {min: 0, max: 1}
  ridgeWidthBottom: {min: 0, max: 1}
  ridgeThicknessTop: {min: 0, max: 1}
  ridgeThicknessBottom: {min: 0, max: 1}
`))
	require.NoError(t, err)

	err = ValidateRunConfiguration(cfg, fitnessFunctions)
	require.Error(t, err)
	for _, name := range []string{"randomSeed", "perSiteMutationRate", "mutationEffectSize", "fractionWithoutRidge"} {
		assert.Contains(t, err.Error(), name+": Required value")
	}
}
