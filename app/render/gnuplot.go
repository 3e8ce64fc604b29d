package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"circlesgraph/app/animation"
)

// GnuplotRasterizer draws frames by piping a script to gnuplot.
type GnuplotRasterizer struct {
	exec   *Executor
	scene  Scene
	header string
}

// NewGnuplotRasterizer creates a rasterizer for scene.
func NewGnuplotRasterizer(exec *Executor, scene Scene) *GnuplotRasterizer {
	return &GnuplotRasterizer{exec: exec, scene: scene, header: gnuplotHeader(scene)}
}

func gnuplotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// gnuplotHeader is the part of the script every frame shares.
func gnuplotHeader(s Scene) string {
	var b strings.Builder
	fmt.Fprintf(&b, "set term png truecolor size %d,%d\n", s.Width, s.Height)
	b.WriteString("set key off\n")
	fmt.Fprintf(&b, "set xrange [%d:%d] noreverse nowriteback\n", s.XMin, s.XMax)
	fmt.Fprintf(&b, "set yrange [%s:%s] noreverse nowriteback\n", formatFloat(s.YMin), formatFloat(s.YMax))
	b.WriteString("unset autoscale\n")

	ticks := s.Ticks()
	labels := make([]string, 0, len(ticks))
	for _, t := range ticks {
		labels = append(labels, fmt.Sprintf("'%s' %d", t.Label, t.Value))
	}
	fmt.Fprintf(&b, "set xtics rotate by -45 scale 1 font \",10\" (%s)\n", strings.Join(labels, ","))

	for _, p := range s.Params {
		b.WriteString(p + "\n")
	}
	if s.Legend != "" {
		fmt.Fprintf(&b, "set title %s\n", gnuplotQuote(s.Legend))
	}
	for i, c := range s.Colors {
		fmt.Fprintf(&b, "set style line %d lc rgb %s pt 7\n", i+1, gnuplotQuote(c))
	}
	return b.String()
}

// Script returns the gnuplot script drawing f into the PNG file out.
func (g *GnuplotRasterizer) Script(f animation.Frame, out string) string {
	var b strings.Builder
	b.WriteString(g.header)
	fmt.Fprintf(&b, "set output %s\n", gnuplotQuote(out))

	var plots []string
	var data strings.Builder
	for i, sf := range f.Series {
		if len(sf.Points) == 0 {
			continue
		}
		plots = append(plots, fmt.Sprintf(`"-" u 1:2 w p ls %d`, i+1))
		for _, p := range sf.Points {
			fmt.Fprintf(&data, "%d %s\n", p.Time, formatFloat(p.Value))
		}
		data.WriteString("e\n")
	}
	if len(plots) == 0 {
		// Nothing started yet: an empty plot keeps the frame sequence complete
		b.WriteString("plot NaN notitle\n")
		return b.String()
	}
	b.WriteString("plot " + strings.Join(plots, ", ") + "\n")
	b.WriteString(data.String())
	return b.String()
}

// Rasterize renders f into out.
func (g *GnuplotRasterizer) Rasterize(ctx context.Context, f animation.Frame, out string) error {
	if _, err := g.exec.Run(ctx, strings.NewReader(g.Script(f, out))); err != nil {
		return fmt.Errorf("failed to draw frame %d: %w", f.Number, err)
	}
	return nil
}
