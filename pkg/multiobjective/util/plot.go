package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/mofes/featureselection/pkg/multiobjective/framework"
)

// PlotResults renders an HTML scatter plot of the objective vectors found by
// a search, optionally against a reference front such as the true Pareto
// front of a benchmark. Only searches with two objectives can be plotted.
func PlotResults(w io.Writer, algorithmName string, objectives []string, found, reference []framework.ObjectiveVector) error {
	if len(objectives) != 2 {
		return fmt.Errorf("can only plot 2 objectives, got %d", len(objectives))
	}
	if len(found) == 0 {
		return fmt.Errorf("results of %s are empty", algorithmName)
	}

	// Create scatter chart
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s Results", algorithmName),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: objectives[0],
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: objectives[1],
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	if len(reference) > 0 {
		referenceData, err := scatterData(reference, "circle")
		if err != nil {
			return fmt.Errorf("reference front: %w", err)
		}
		scatter.AddSeries("True Pareto Front", referenceData)
	}

	foundData, err := scatterData(found, "triangle")
	if err != nil {
		return fmt.Errorf("%s solutions: %w", algorithmName, err)
	}

	// Add data series
	scatter.AddSeries(fmt.Sprintf("%s Solutions", algorithmName), foundData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	return scatter.Render(w)
}

func scatterData(points []framework.ObjectiveVector, symbol string) ([]opts.ScatterData, error) {
	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		if len(p) != 2 {
			return nil, fmt.Errorf("point %d has %d objectives", i, len(p))
		}
		data[i] = opts.ScatterData{
			Value:      []float64{p[0], p[1]},
			Symbol:     symbol,
			SymbolSize: 10,
		}
	}
	return data, nil
}

// FrontObjectives returns the objective vectors of the rank 0 candidates.
func FrontObjectives(population []framework.Candidate) []framework.ObjectiveVector {
	var front []framework.ObjectiveVector
	for i := range population {
		if population[i].Rank == 0 {
			front = append(front, population[i].Objectives)
		}
	}
	return front
}
