package settings

// Settings holds the user-facing configuration as read from the config file
// and command line. Bounds stay strings because they accept sentinels
// ("min", "max", "auto") as well as values. Zero timing values mean unset.
type Settings struct {
	// Time format using %Y %y %m %d %H %M %S, e.g. "[%Y-%m-%d %H:%M:%S]"
	TimeFormat string `yaml:"time_format" json:"time_format"`
	// Timezone timestamps without offset are read in: "UTC", "Local" or an IANA name
	Timezone string `yaml:"timezone" json:"timezone"`
	// Time window in TimeFormat, or "min"/"max"/"auto"
	MinTime string `yaml:"x_min" json:"x_min"`
	MaxTime string `yaml:"x_max" json:"x_max"`
	// Value axis bounds, or "min"/"max"/"auto"
	MinVal string `yaml:"y_min" json:"y_min"`
	MaxVal string `yaml:"y_max" json:"y_max"`
	// Playback
	Speed    float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	Duration float64 `yaml:"time,omitempty" json:"time,omitempty"`
	FPS      float64 `yaml:"fps,omitempty" json:"fps,omitempty"`
	// Columns per series; 0 picks min(records, MaxColumns)
	Columns    int    `yaml:"columns" json:"columns"`
	MaxColumns int    `yaml:"max_columns" json:"max_columns"`
	Steps      int    `yaml:"steps" json:"steps"`
	Delay      int    `yaml:"delay" json:"delay"`
	Method     string `yaml:"method" json:"method"`
	// Effect params in the form "delay=N:columns=N:color=a,b:method=top:steps=N"
	EffectParams []string `yaml:"effect_params,omitempty" json:"effect_params,omitempty"`
	// Output
	Colors        []string `yaml:"colors,omitempty" json:"colors,omitempty"`
	Legend        string   `yaml:"legend,omitempty" json:"legend,omitempty"`
	GnuplotParams []string `yaml:"gnuplot_params,omitempty" json:"gnuplot_params,omitempty"`
	Name          string   `yaml:"name" json:"name"`
	Renderer      string   `yaml:"renderer" json:"renderer"`
	Width         int      `yaml:"width" json:"width"`
	Height        int      `yaml:"height" json:"height"`
	// Input
	SkipHeader bool   `yaml:"skip_header" json:"skip_header"`
	JSONPath   string `yaml:"json_path,omitempty" json:"json_path,omitempty"`
	Sheet      string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
	// Diagnostics
	IgnoreErrors bool `yaml:"ignore_errors" json:"ignore_errors"`
	Verbose      int  `yaml:"verbose" json:"verbose"`
}

// Renderer names.
const (
	RendererGnuplot = "gnuplot"
	RendererChart   = "chart"
)

// defaultSettings defines the built-in defaults.
var defaultSettings = Settings{
	TimeFormat: "[%Y-%m-%d %H:%M:%S]",
	Timezone:   "UTC",
	MinTime:    "min",
	MaxTime:    "max",
	MinVal:     "min",
	MaxVal:     "max",
	MaxColumns: 30,
	Steps:      50,
	Delay:      10,
	Method:     "average",
	Name:       "circles_graph",
	Renderer:   RendererGnuplot,
	Width:      800,
	Height:     600,
	// Warnings are reported and the run continues unless --strict is given
	IgnoreErrors: true,
}

// Defaults returns a copy of the built-in defaults.
func Defaults() Settings {
	s := defaultSettings
	s.Colors = nil
	s.GnuplotParams = nil
	s.EffectParams = nil
	return s
}
