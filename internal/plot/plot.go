// Package plot renders optimisation results as self-contained HTML charts.
package plot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/urbansense/placement-core/internal/evolve"
	"github.com/urbansense/placement-core/pkg/models"
)

// CoverageHistory renders the coverage achieved after each greedy placement
// as a line chart.
func CoverageHistory(rec *models.NetworkRecord, w io.Writer) error {
	if len(rec.CoverageHistory) == 0 {
		return fmt.Errorf("record has no coverage history")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Greedy coverage for %s", rec.Region),
			Subtitle: fmt.Sprintf("%s decay, parameter %g", rec.DecayKind, rec.DecayParam),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "sensors placed",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "total coverage",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	labels := make([]string, len(rec.CoverageHistory))
	data := make([]opts.LineData, len(rec.CoverageHistory))
	for i, cov := range rec.CoverageHistory {
		labels[i] = fmt.Sprintf("%d", i+1)
		data[i] = opts.LineData{Value: cov}
	}

	line.SetXAxis(labels).
		AddSeries("coverage", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return line.Render(w)
}

// ObjectiveSpace renders a two-objective population as a scatter plot with
// the non-dominated candidates highlighted.
func ObjectiveSpace(rec *models.PopulationRecord, w io.Writer) error {
	if len(rec.Population) == 0 {
		return fmt.Errorf("record has no population")
	}
	if len(rec.TotalCoverage) != len(rec.Population) {
		return fmt.Errorf("record has %d fitness rows for %d candidates", len(rec.TotalCoverage), len(rec.Population))
	}
	if len(rec.TotalCoverage[0]) != 2 {
		return fmt.Errorf("can only plot two objectives, record has %d", len(rec.TotalCoverage[0]))
	}

	xName, yName := "objective 1", "objective 2"
	if len(rec.Objectives) == 2 {
		xName, yName = rec.Objectives[0], rec.Objectives[1]
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Objective space for %s", rec.Region),
			Subtitle: fmt.Sprintf("%d candidates after %d generations", rec.PopulationSize, rec.Generations),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	front := make(map[int]bool)
	for _, idx := range evolve.ParetoFront(rec.TotalCoverage) {
		front[idx] = true
	}

	var frontData, restData []opts.ScatterData
	for i, fit := range rec.TotalCoverage {
		point := opts.ScatterData{
			Value:      []float64{fit[0], fit[1]},
			Symbol:     "circle",
			SymbolSize: 10,
		}
		if front[i] {
			point.Symbol = "triangle"
			frontData = append(frontData, point)
		} else {
			restData = append(restData, point)
		}
	}

	scatter.AddSeries("Pareto front", frontData).
		AddSeries("Dominated candidates", restData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return scatter.Render(w)
}
