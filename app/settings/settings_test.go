package settings

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"circlesgraph/app/columns"
	"circlesgraph/app/diagnostics"
	"circlesgraph/app/timestamps"
)

func quietReporter(ignoreErrors bool) *diagnostics.Reporter {
	return diagnostics.NewReporter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), ignoreErrors)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "circlesgraph.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadFileOverlaysPresentKeys(t *testing.T) {
	path := writeConfig(t, `
time_format: "%Y-%m-%d %H:%M"
y_max: 100
y_min: -2.5
speed: 2
columns: 12
colors: [red, blue]
gnuplot_params: "set grid"
ignore_errors: false
`)
	s, warnings, err := LoadFile(path, Defaults())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}
	if s.TimeFormat != "%Y-%m-%d %H:%M" || s.MaxVal != "100" || s.MinVal != "-2.5" || s.Speed != 2 || s.Columns != 12 {
		t.Errorf("Unexpected settings: %+v", s)
	}
	if len(s.Colors) != 2 || s.Colors[1] != "blue" {
		t.Errorf("Unexpected colors: %v", s.Colors)
	}
	if len(s.GnuplotParams) != 1 || s.GnuplotParams[0] != "set grid" {
		t.Errorf("Expected a single string to become a list, got %v", s.GnuplotParams)
	}
	if s.IgnoreErrors {
		t.Error("Expected ignore_errors to be overridden")
	}
	if s.Delay != 10 || s.Name != "circles_graph" {
		t.Errorf("Expected untouched keys to keep defaults, got delay=%d name=%q", s.Delay, s.Name)
	}
}

func TestLoadFileWarnsOnBadKeys(t *testing.T) {
	path := writeConfig(t, "steps: many\nfoo: 1\n")
	s, warnings, err := LoadFile(path, Defaults())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", warnings)
	}
	for _, w := range warnings {
		if !errors.Is(w, diagnostics.ErrInvalidSetting) {
			t.Errorf("Expected ErrInvalidSetting, got %v", w)
		}
	}
	if s.Steps != 50 {
		t.Errorf("Expected default steps, got %d", s.Steps)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"), Defaults()); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(Defaults(), quietReporter(false))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cfg.Layout.Format() != "[%Y-%m-%d %H:%M:%S]" {
		t.Errorf("Unexpected format %q", cfg.Layout.Format())
	}
	if cfg.Window.HasMin || cfg.Window.HasMax || cfg.MinVal.Set || cfg.MaxVal.Set {
		t.Errorf("Expected automatic bounds, got %+v %+v %+v", cfg.Window, cfg.MinVal, cfg.MaxVal)
	}
	if cfg.MaxColumns != 30 || cfg.Steps != 50 || cfg.Delay != 10 || cfg.Method != columns.MethodAverage {
		t.Errorf("Unexpected effect defaults: %s", cfg)
	}
	if cfg.Name != "circles_graph" || cfg.Renderer != RendererGnuplot {
		t.Errorf("Unexpected output defaults: %s", cfg)
	}
}

func TestResolveBounds(t *testing.T) {
	s := Defaults()
	s.MinTime = "[2020-01-01 00:00:00]"
	s.MaxTime = "auto"
	s.MinVal = "-5"
	s.MaxVal = "max"
	cfg, err := Resolve(s, quietReporter(false))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !cfg.Window.HasMin || cfg.Window.Min != 1577836800 || cfg.Window.HasMax {
		t.Errorf("Unexpected window %+v", cfg.Window)
	}
	if !cfg.MinVal.Set || cfg.MinVal.Value != -5 || cfg.MaxVal.Set {
		t.Errorf("Unexpected value bounds %+v %+v", cfg.MinVal, cfg.MaxVal)
	}
}

func TestResolveFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Settings)
		check func(*testing.T, Config)
	}{
		{
			name: "inverted value bounds",
			edit: func(s *Settings) { s.MinVal, s.MaxVal = "10", "5" },
			check: func(t *testing.T, c Config) {
				if c.MinVal.Set || c.MaxVal.Set {
					t.Errorf("Expected both bounds to reset, got %+v %+v", c.MinVal, c.MaxVal)
				}
			},
		},
		{
			name: "inverted time bounds",
			edit: func(s *Settings) { s.MinTime, s.MaxTime = "[2020-01-02 00:00:00]", "[2020-01-01 00:00:00]" },
			check: func(t *testing.T, c Config) {
				if c.Window.HasMin || c.Window.HasMax {
					t.Errorf("Expected the window to reset, got %+v", c.Window)
				}
			},
		},
		{
			name: "time bound in wrong format",
			edit: func(s *Settings) { s.MaxTime = "yesterday" },
			check: func(t *testing.T, c Config) {
				if c.Window.HasMax {
					t.Errorf("Expected no maximum, got %+v", c.Window)
				}
			},
		},
		{
			name: "non numeric value bound",
			edit: func(s *Settings) { s.MaxVal = "lots" },
			check: func(t *testing.T, c Config) {
				if c.MaxVal.Set {
					t.Errorf("Expected automatic maximum, got %+v", c.MaxVal)
				}
			},
		},
		{
			name: "bad method and steps",
			edit: func(s *Settings) { s.Method, s.Steps = "median", 0 },
			check: func(t *testing.T, c Config) {
				if c.Method != columns.MethodAverage || c.Steps != 50 {
					t.Errorf("Expected defaults, got %s", c)
				}
			},
		},
		{
			name: "negative speed",
			edit: func(s *Settings) { s.Speed = -1 },
			check: func(t *testing.T, c Config) {
				if c.Timing.Speed != 0 {
					t.Errorf("Expected speed to be unset, got %v", c.Timing.Speed)
				}
			},
		},
		{
			name: "unknown color and gnuplot param",
			edit: func(s *Settings) {
				s.Colors = []string{"red", "ultraviolet"}
				s.GnuplotParams = []string{"set grid", "plot sin(x)", "unset key;"}
			},
			check: func(t *testing.T, c Config) {
				if len(c.Colors) != 1 || c.Colors[0] != "red" {
					t.Errorf("Unexpected colors %v", c.Colors)
				}
				if len(c.GnuplotParams) != 1 || c.GnuplotParams[0] != "set grid" {
					t.Errorf("Unexpected gnuplot params %v", c.GnuplotParams)
				}
			},
		},
		{
			name: "unusable name",
			edit: func(s *Settings) { s.Name = "../out" },
			check: func(t *testing.T, c Config) {
				if c.Name != "circles_graph" {
					t.Errorf("Expected default name, got %q", c.Name)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.edit(&s)
			reporter := quietReporter(true)
			cfg, err := Resolve(s, reporter)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if reporter.Count("InvalidSetting") == 0 {
				t.Error("Expected an InvalidSetting warning")
			}
			tt.check(t, cfg)

			if _, err := Resolve(s, quietReporter(false)); !errors.Is(err, diagnostics.ErrInvalidSetting) {
				t.Errorf("Expected strict mode to fail with ErrInvalidSetting, got %v", err)
			}
		})
	}
}

func TestResolveRejectsBadFormat(t *testing.T) {
	s := Defaults()
	s.TimeFormat = "%H:%H"
	if _, err := Resolve(s, quietReporter(true)); !errors.Is(err, timestamps.ErrInvalidFormat) {
		t.Errorf("Expected ErrInvalidFormat, got %v", err)
	}
}

func TestApplyEffectParams(t *testing.T) {
	s := Defaults()
	s.EffectParams = []string{"delay=3:columns=12", "color=red,blue:method=TOP", "steps=0:bogus:speed=2"}
	s, warnings := ApplyEffectParams(s)
	if s.Delay != 3 || s.Columns != 12 || s.Method != "top" || s.Steps != 50 {
		t.Errorf("Unexpected settings %+v", s)
	}
	if len(s.Colors) != 2 || s.Colors[0] != "red" {
		t.Errorf("Unexpected colors %v", s.Colors)
	}
	if len(warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %v", warnings)
	}
}

func TestPickColors(t *testing.T) {
	got := PickColors([]string{"red", "red", "navy"}, 4)
	want := []string{"red", "navy", "web-green", "black"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if n := len(PickColors(nil, len(palette)+3)); n != len(palette)+3 {
		t.Errorf("Expected colors to repeat once the palette runs out, got %d", n)
	}
}

func TestMarshalOnlyChangedKeys(t *testing.T) {
	s := Defaults()
	s.Delay = 4
	s.Legend = "CPU"
	b, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		t.Fatalf("Failed to parse output: %v", err)
	}
	if len(m) != 2 || m["delay"] != 4 || m["legend"] != "CPU" {
		t.Errorf("Expected only delay and legend, got %v", m)
	}
}
