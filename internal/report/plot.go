package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wonny/steamflip/internal/backtest"
)

// SaveTimelinePlot renders the hourly portfolio timeline to a PNG: committed
// cash on the left axis and units held as a second series.
func SaveTimelinePlot(summary backtest.Summary, path string) error {
	if len(summary.Timeline) == 0 {
		return fmt.Errorf("timeline is empty, nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Portfolio Timeline"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "USD / Units"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02 15h"}

	cash := make(plotter.XYs, len(summary.Timeline))
	units := make(plotter.XYs, len(summary.Timeline))
	for i, point := range summary.Timeline {
		x := float64(point.Hour.Unix())
		cash[i] = plotter.XY{X: x, Y: point.CashCommitted}
		units[i] = plotter.XY{X: x, Y: float64(point.UnitsHeld)}
	}

	cashLine, err := plotter.NewLine(cash)
	if err != nil {
		return fmt.Errorf("failed to build cash series: %w", err)
	}
	unitsLine, err := plotter.NewLine(units)
	if err != nil {
		return fmt.Errorf("failed to build units series: %w", err)
	}
	unitsLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(cashLine, unitsLine)
	p.Legend.Add("cash committed", cashLine)
	p.Legend.Add("units held", unitsLine)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
