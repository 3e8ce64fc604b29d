package settings

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"circlesgraph/app/animation"
	"circlesgraph/app/columns"
	"circlesgraph/app/diagnostics"
	"circlesgraph/app/series"
	"circlesgraph/app/timestamps"
)

// Config is the validated, read-only configuration of one run.
type Config struct {
	Layout        *timestamps.Layout
	Window        series.Window
	MinVal        columns.Bound
	MaxVal        columns.Bound
	Timing        animation.Timing
	Columns       int
	MaxColumns    int
	Steps         int
	Delay         int
	Method        columns.Method
	Colors        []string
	Legend        string
	GnuplotParams []string
	Name          string
	Renderer      string
	Width         int
	Height        int
	SkipHeader    bool
	JSONPath      string
	Sheet         string
}

func isSentinel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "min", "max", "auto":
		return true
	}
	return false
}

// Resolve validates s and builds the run's Config. Invalid values are reported
// through reporter and replaced by their defaults. An unusable time format is
// returned as an error.
func Resolve(s Settings, reporter *diagnostics.Reporter) (Config, error) {
	s, warnings := ApplyEffectParams(s)
	if err := reporter.WarnAll(warnings); err != nil {
		return Config{}, err
	}
	warn := func(format string, args ...any) error {
		return reporter.Warn(invalid(format, args...))
	}

	loc := timestamps.GetLocationForTZ(s.Timezone)
	layout, err := timestamps.Compile(s.TimeFormat, loc)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Layout:     layout,
		SkipHeader: s.SkipHeader,
		JSONPath:   s.JSONPath,
		Sheet:      s.Sheet,
	}

	// Time window
	parseTime := func(key, text string) (int64, bool, error) {
		if isSentinel(text) {
			return 0, false, nil
		}
		ts, err := layout.Parse(strings.TrimSpace(text))
		if err != nil {
			return 0, false, warn("%s: %v, using the data range", key, err)
		}
		return ts, true, nil
	}
	if cfg.Window.Min, cfg.Window.HasMin, err = parseTime("x_min", s.MinTime); err != nil {
		return Config{}, err
	}
	if cfg.Window.Max, cfg.Window.HasMax, err = parseTime("x_max", s.MaxTime); err != nil {
		return Config{}, err
	}
	if cfg.Window.HasMin && cfg.Window.HasMax && cfg.Window.Max <= cfg.Window.Min {
		if err := warn("x_max %q is not after x_min %q, using the data range", s.MaxTime, s.MinTime); err != nil {
			return Config{}, err
		}
		cfg.Window = series.Window{}
	}

	// Value bounds
	parseValue := func(key, text string) (columns.Bound, error) {
		if isSentinel(text) {
			return columns.Bound{}, nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return columns.Bound{}, warn("%s: %q is not a number, using automatic bound", key, text)
		}
		return columns.Bound{Set: true, Value: v}, nil
	}
	if cfg.MinVal, err = parseValue("y_min", s.MinVal); err != nil {
		return Config{}, err
	}
	if cfg.MaxVal, err = parseValue("y_max", s.MaxVal); err != nil {
		return Config{}, err
	}
	if cfg.MinVal.Set && cfg.MaxVal.Set && cfg.MaxVal.Value <= cfg.MinVal.Value {
		if err := warn("y_max %g is not above y_min %g, using automatic bounds", cfg.MaxVal.Value, cfg.MinVal.Value); err != nil {
			return Config{}, err
		}
		cfg.MinVal, cfg.MaxVal = columns.Bound{}, columns.Bound{}
	}

	// Playback
	positive := func(key string, v float64) (float64, error) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, warn("%s has to be a positive number, got %g", key, v)
		}
		return v, nil
	}
	if cfg.Timing.Speed, err = positive("speed", s.Speed); err != nil {
		return Config{}, err
	}
	if cfg.Timing.FPS, err = positive("fps", s.FPS); err != nil {
		return Config{}, err
	}
	if cfg.Timing.Duration, err = positive("time", s.Duration); err != nil {
		return Config{}, err
	}

	// Effect
	defaults := Defaults()
	intSetting := func(key string, v, min, def int) (int, error) {
		if v < min {
			return def, warn("%s has to be at least %d, got %d", key, min, v)
		}
		return v, nil
	}
	if cfg.Columns, err = intSetting("columns", s.Columns, 0, 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxColumns, err = intSetting("max_columns", s.MaxColumns, 1, defaults.MaxColumns); err != nil {
		return Config{}, err
	}
	if cfg.Steps, err = intSetting("steps", s.Steps, 1, defaults.Steps); err != nil {
		return Config{}, err
	}
	if cfg.Delay, err = intSetting("delay", s.Delay, 0, defaults.Delay); err != nil {
		return Config{}, err
	}
	if cfg.Method, err = columns.ParseMethod(s.Method); err != nil {
		if werr := warn("method: %v", err); werr != nil {
			return Config{}, werr
		}
		cfg.Method = columns.MethodAverage
	}

	// Output
	for _, c := range s.Colors {
		if !IsKnownColor(c) {
			if err := warn("unknown color %q, skipping", c); err != nil {
				return Config{}, err
			}
			continue
		}
		cfg.Colors = append(cfg.Colors, c)
	}
	params, paramWarnings := FilterGnuplotParams(s.GnuplotParams)
	if err := reporter.WarnAll(paramWarnings); err != nil {
		return Config{}, err
	}
	cfg.GnuplotParams = params

	if s.Legend != "" && strings.TrimSpace(s.Legend) == "" {
		if err := warn("legend is an empty string, removing"); err != nil {
			return Config{}, err
		}
	} else {
		cfg.Legend = s.Legend
	}

	cfg.Name = strings.TrimSpace(s.Name)
	if cfg.Name == "" || strings.ContainsAny(cfg.Name, `/\`) || cfg.Name == "." || cfg.Name == ".." {
		if err := warn("name %q cannot be used as a directory name, using %q", s.Name, defaults.Name); err != nil {
			return Config{}, err
		}
		cfg.Name = defaults.Name
	}

	switch s.Renderer {
	case RendererGnuplot, RendererChart:
		cfg.Renderer = s.Renderer
	default:
		if err := warn("unknown renderer %q, using %s", s.Renderer, defaults.Renderer); err != nil {
			return Config{}, err
		}
		cfg.Renderer = defaults.Renderer
	}
	if cfg.Width, err = intSetting("width", s.Width, 100, defaults.Width); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = intSetting("height", s.Height, 100, defaults.Height); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// String summarises the configuration for verbose logging.
func (c Config) String() string {
	return fmt.Sprintf("format=%q columns=%d max_columns=%d steps=%d delay=%d method=%s renderer=%s size=%dx%d",
		c.Layout.Format(), c.Columns, c.MaxColumns, c.Steps, c.Delay, c.Method, c.Renderer, c.Width, c.Height)
}
