package render

import (
	"time"

	"circlesgraph/app/pipeline"
	"circlesgraph/app/settings"
	"circlesgraph/app/timestamps"
)

// Scene holds everything the frames of one video share.
type Scene struct {
	XMin     int64
	XMax     int64
	YMin     float64
	YMax     float64
	Colors   []string
	Legend   string
	Params   []string
	Width    int
	Height   int
	Location *time.Location
}

// Tick is a labelled x axis position.
type Tick struct {
	Value int64
	Label string
}

// NewScene builds the scene of a pipeline result. A zero-width time range or
// a zero-height value range is widened by one unit on each side so the
// renderers always get a drawable area.
func NewScene(res *pipeline.Result, cfg settings.Config) Scene {
	s := Scene{
		YMin:   res.Axis.Min,
		YMax:   res.Axis.Max,
		Colors: res.Colors,
		Legend: cfg.Legend,
		Params: cfg.GnuplotParams,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	if cfg.Layout != nil {
		s.Location = cfg.Layout.Location()
	}
	if res.Merge != nil {
		s.XMin, s.XMax = res.Merge.Span()
	}
	if s.XMax <= s.XMin {
		s.XMin--
		s.XMax++
	}
	if s.YMax <= s.YMin {
		s.YMin--
		s.YMax++
	}
	if s.Width <= 0 {
		s.Width = 800
	}
	if s.Height <= 0 {
		s.Height = 600
	}
	return s
}

// Ticks places a clock label every tenth of the time range, starting a
// twentieth in.
func (s Scene) Ticks() []Tick {
	span := s.XMax - s.XMin
	step := span / 10
	if step <= 0 {
		return []Tick{{Value: s.XMin, Label: timestamps.ClockLabel(s.XMin, s.Location)}}
	}
	var ticks []Tick
	for v := s.XMin + span/20; v < s.XMax; v += step {
		ticks = append(ticks, Tick{Value: v, Label: timestamps.ClockLabel(v, s.Location)})
	}
	return ticks
}

// Color returns the color of series i.
func (s Scene) Color(i int) string {
	if i < len(s.Colors) {
		return s.Colors[i]
	}
	return ""
}
