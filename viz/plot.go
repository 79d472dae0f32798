// Package viz renders lesson results to PNG charts.
package viz

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"mlclass/nn"
)

// LossCurve writes training loss and held-out accuracy per epoch.
func LossCurve(stats []nn.EpochStats, title, path string) error {
	if len(stats) == 0 {
		return fmt.Errorf("no epoch stats to plot")
	}

	loss := make(plotter.XYs, len(stats))
	accuracy := make(plotter.XYs, len(stats))
	for i, s := range stats {
		loss[i].X = float64(s.Epoch)
		loss[i].Y = s.Loss
		accuracy[i].X = float64(s.Epoch)
		accuracy[i].Y = s.Accuracy
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"

	if err := plotutil.AddLinePoints(p, "loss", loss, "accuracy", accuracy); err != nil {
		return fmt.Errorf("adding loss curve: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Scatter writes a 2-D scatter of the xi-th and yi-th features, one series
// per group. names labels the series; a nil names falls back to group
// numbers.
func Scatter(points [][]float64, groups []int, xi, yi int, names []string, title, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no points to plot")
	}
	if len(points) != len(groups) {
		return fmt.Errorf("got %d points but %d groups", len(points), len(groups))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("feature %d", xi)
	p.Y.Label.Text = fmt.Sprintf("feature %d", yi)

	series := groupPoints(points, groups, xi, yi)
	args := make([]interface{}, 0, 2*len(series))
	for g, xys := range series {
		args = append(args, seriesName(names, g), xys)
	}
	if err := plotutil.AddScatters(p, args...); err != nil {
		return fmt.Errorf("adding scatter series: %w", err)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Boundary writes a decision-boundary chart: a dense classified grid drawn
// with small glyphs under the data points.
func Boundary(grid [][]float64, gridGroups []int, points [][]float64, pointGroups []int, xi, yi int, names []string, title, path string) error {
	if len(grid) != len(gridGroups) || len(points) != len(pointGroups) {
		return fmt.Errorf("points and group lengths do not match")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("feature %d", xi)
	p.Y.Label.Text = fmt.Sprintf("feature %d", yi)

	for g, xys := range groupPoints(grid, gridGroups, xi, yi) {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("adding boundary region %d: %w", g, err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  plotutil.Color(g),
			Radius: vg.Points(1),
			Shape:  draw.BoxGlyph{},
		}
		p.Add(s)
	}

	for g, xys := range groupPoints(points, pointGroups, xi, yi) {
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("adding point series %d: %w", g, err)
		}
		s.GlyphStyle = draw.GlyphStyle{
			Color:  plotutil.Color(g),
			Radius: vg.Points(3),
			Shape:  plotutil.Shape(g),
		}
		p.Add(s)
		p.Legend.Add(seriesName(names, g), s)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// groupPoints splits points into per-group XY series, ordered by group index.
func groupPoints(points [][]float64, groups []int, xi, yi int) []plotter.XYs {
	maxGroup := 0
	for _, g := range groups {
		if g > maxGroup {
			maxGroup = g
		}
	}
	series := make([]plotter.XYs, maxGroup+1)
	for i, point := range points {
		g := groups[i]
		series[g] = append(series[g], plotter.XY{X: point[xi], Y: point[yi]})
	}
	return series
}

func seriesName(names []string, g int) string {
	if g < len(names) {
		return names[g]
	}
	return fmt.Sprintf("group %d", g)
}
