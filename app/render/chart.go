package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"circlesgraph/app/animation"
)

// namedColors maps the common gnuplot color names to RGB.
var namedColors = map[string]string{
	"black":             "000000",
	"dark-grey":         "a0a0a0",
	"red":               "ff0000",
	"web-green":         "00c000",
	"web-blue":          "0080ff",
	"dark-magenta":      "c000ff",
	"dark-cyan":         "00eeee",
	"dark-orange":       "c04000",
	"dark-yellow":       "c8c800",
	"royalblue":         "4169e1",
	"goldenrod":         "ffc020",
	"dark-spring-green": "008040",
	"purple":            "c080ff",
	"steelblue":         "306080",
	"dark-red":          "8b0000",
	"dark-chartreuse":   "408000",
	"orchid":            "ff80ff",
	"aquamarine":        "7fffd4",
	"brown":             "a52a2a",
	"yellow":            "ffff00",
	"turquoise":         "40e0d0",
	"green":             "00ff00",
	"blue":              "0000ff",
	"magenta":           "ff00ff",
	"cyan":              "00ffff",
	"orange":            "ffa500",
	"gold":              "ffd700",
	"dark-green":        "006400",
	"dark-blue":         "00008b",
	"navy":              "000080",
	"coral":             "ff7f50",
	"salmon":            "fa8072",
	"violet":            "ee82ee",
	"pink":              "ffc0cb",
	"grey":              "c0c0c0",
	"gray":              "bebebe",
	"olive":             "a08020",
	"forest-green":      "228b22",
	"sea-green":         "2e8b57",
	"skyblue":           "87ceeb",
	"orange-red":        "ff4500",
	"dark-violet":       "9400d3",
	"plum":              "dda0dd",
}

// chartColor resolves a gnuplot color name or "#rrggbb" value. Unknown names
// fall back to the chart's default series colors.
func chartColor(name string, i int) drawing.Color {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		return drawing.ColorFromHex(name[1:])
	}
	if hex, ok := namedColors[name]; ok {
		return drawing.ColorFromHex(hex)
	}
	return chart.GetDefaultColor(i)
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    6,
		DotColor:    col,
	}
}

// ChartRasterizer draws frames in-process with go-chart.
type ChartRasterizer struct {
	scene Scene
	ticks []chart.Tick
}

// NewChartRasterizer creates a rasterizer for scene.
func NewChartRasterizer(scene Scene) *ChartRasterizer {
	var ticks []chart.Tick
	for _, t := range scene.Ticks() {
		ticks = append(ticks, chart.Tick{Value: float64(t.Value), Label: t.Label})
	}
	return &ChartRasterizer{scene: scene, ticks: ticks}
}

// Chart builds the chart of f.
func (c *ChartRasterizer) Chart(f animation.Frame) chart.Chart {
	s := c.scene
	var series []chart.Series
	for i, sf := range f.Series {
		if len(sf.Points) == 0 {
			continue
		}
		xs := make([]float64, 0, len(sf.Points))
		ys := make([]float64, 0, len(sf.Points))
		for _, p := range sf.Points {
			xs = append(xs, float64(p.Time))
			ys = append(ys, p.Value)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    sf.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chartColor(s.Color(i), i)),
		})
	}
	if len(series) == 0 {
		// go-chart needs a series to lay out the axes
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{float64(s.XMin)},
			YValues: []float64{s.YMin},
			Style:   chart.Style{Hidden: true},
		})
	}

	return chart.Chart{
		Title:      s.Legend,
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 36}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: float64(s.XMin), Max: float64(s.XMax)},
			Ticks: c.ticks,
			Style: chart.Style{TextRotationDegrees: -45},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: s.YMin, Max: s.YMax},
		},
		Series: series,
	}
}

// Rasterize renders f into the PNG file out.
func (c *ChartRasterizer) Rasterize(ctx context.Context, f animation.Frame, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	ch := c.Chart(f)
	if err := ch.Render(chart.PNG, file); err != nil {
		file.Close()
		return fmt.Errorf("failed to draw frame %d: %w", f.Number, err)
	}
	return file.Close()
}
