package analysis

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
)

// PlotFront renders a scatter plot of the front over two objectives into an
// HTML file at path. When reference is not empty it is drawn as a second
// series, e.g. the true Pareto front of a benchmark function.
func PlotFront(path, title, xObjective, yObjective string, front []*framework.Individual, reference []framework.ObjectiveSpacePoint) error {
	if len(front) == 0 {
		return fmt.Errorf("nothing to plot for %s: %w", title, framework.ErrEmptyPopulation)
	}

	found := make([]opts.ScatterData, len(front))
	for i, ind := range front {
		x, okX := ind.Scores[xObjective]
		y, okY := ind.Scores[yObjective]
		if !okX || !okY {
			return fmt.Errorf("%w: individual %d has no %q/%q scores", framework.ErrObjectiveMismatch, ind.ID, xObjective, yObjective)
		}
		found[i] = opts.ScatterData{
			Value:      []float64{x, y},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xObjective,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yObjective,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	if len(reference) > 0 {
		ref := make([]opts.ScatterData, len(reference))
		for i, p := range reference {
			ref[i] = opts.ScatterData{
				Value:      p,
				Symbol:     "circle",
				SymbolSize: 10,
			}
		}
		scatter.AddSeries("True Pareto Front", ref)
	}

	scatter.AddSeries("Best Individuals", found).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
