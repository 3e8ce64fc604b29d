package settings

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"circlesgraph/app/diagnostics"
)

// LoadFile overlays the keys present in the YAML file at path onto base.
// Keys with a value of the wrong type are skipped and returned as warnings so
// they can be reported once the warning channel exists.
func LoadFile(path string, base Settings) (Settings, []error, error) {
	settings := base
	b, err := os.ReadFile(path)
	if err != nil {
		return settings, nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// Unmarshal into a generic map to detect key presence
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	o := overlay{m: m, path: path}
	o.str("time_format", &settings.TimeFormat)
	o.str("timezone", &settings.Timezone)
	o.bound("x_min", &settings.MinTime)
	o.bound("x_max", &settings.MaxTime)
	o.bound("y_min", &settings.MinVal)
	o.bound("y_max", &settings.MaxVal)
	o.float("speed", &settings.Speed)
	o.float("time", &settings.Duration)
	o.float("fps", &settings.FPS)
	o.integer("columns", &settings.Columns)
	o.integer("max_columns", &settings.MaxColumns)
	o.integer("steps", &settings.Steps)
	o.integer("delay", &settings.Delay)
	o.str("method", &settings.Method)
	o.list("effect_params", &settings.EffectParams)
	o.list("colors", &settings.Colors)
	o.str("legend", &settings.Legend)
	o.list("gnuplot_params", &settings.GnuplotParams)
	o.str("name", &settings.Name)
	o.str("renderer", &settings.Renderer)
	o.integer("width", &settings.Width)
	o.integer("height", &settings.Height)
	o.boolean("skip_header", &settings.SkipHeader)
	o.str("json_path", &settings.JSONPath)
	o.str("sheet", &settings.Sheet)
	o.boolean("ignore_errors", &settings.IgnoreErrors)
	o.integer("verbose", &settings.Verbose)

	for key := range m {
		if !knownKeys[key] {
			o.warn(key, "unknown directive")
		}
	}
	return settings, o.warnings, nil
}

var knownKeys = map[string]bool{
	"time_format": true, "timezone": true, "x_min": true, "x_max": true, "y_min": true, "y_max": true,
	"speed": true, "time": true, "fps": true, "columns": true, "max_columns": true, "steps": true,
	"delay": true, "method": true, "effect_params": true, "colors": true, "legend": true,
	"gnuplot_params": true, "name": true, "renderer": true, "width": true, "height": true,
	"skip_header": true, "json_path": true, "sheet": true, "ignore_errors": true, "verbose": true,
}

type overlay struct {
	m        map[string]any
	path     string
	warnings []error
}

func (o *overlay) warn(key, problem string) {
	o.warnings = append(o.warnings, fmt.Errorf("%w: %s: %s: %s", diagnostics.ErrInvalidSetting, o.path, key, problem))
}

func (o *overlay) str(key string, dst *string) {
	if v, ok := o.m[key]; ok {
		if vs, oks := v.(string); oks {
			*dst = vs
		} else {
			o.warn(key, "expected a string")
		}
	}
}

// bound accepts sentinel strings and plain numbers alike.
func (o *overlay) bound(key string, dst *string) {
	if v, ok := o.m[key]; ok {
		switch vv := v.(type) {
		case string:
			*dst = vv
		case int:
			*dst = strconv.Itoa(vv)
		case float64:
			*dst = strconv.FormatFloat(vv, 'g', -1, 64)
		default:
			o.warn(key, "expected a number or min/max")
		}
	}
}

func (o *overlay) float(key string, dst *float64) {
	if v, ok := o.m[key]; ok {
		switch vv := v.(type) {
		case int:
			*dst = float64(vv)
		case float64:
			*dst = vv
		default:
			o.warn(key, "expected a number")
		}
	}
}

func (o *overlay) integer(key string, dst *int) {
	if v, ok := o.m[key]; ok {
		if vi, oki := v.(int); oki {
			*dst = vi
		} else {
			o.warn(key, "expected an integer")
		}
	}
}

func (o *overlay) boolean(key string, dst *bool) {
	if v, ok := o.m[key]; ok {
		if vb, okb := v.(bool); okb {
			*dst = vb
		} else {
			o.warn(key, "expected true or false")
		}
	}
}

// list accepts a YAML sequence of strings or a single string.
func (o *overlay) list(key string, dst *[]string) {
	v, ok := o.m[key]
	if !ok {
		return
	}
	switch vv := v.(type) {
	case string:
		*dst = []string{vv}
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, oks := item.(string); oks {
				out = append(out, s)
			} else {
				o.warn(key, fmt.Sprintf("skipping non-string entry %v", item))
			}
		}
		*dst = out
	default:
		o.warn(key, "expected a list of strings")
	}
}
