package timestamps

import (
	"errors"
	"testing"
	"time"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "default format", format: "[%Y-%m-%d %H:%M:%S]"},
		{name: "two digit year", format: "%y%m%d"},
		{name: "single directive", format: "%S"},
		{name: "no directive", format: "[time]", wantErr: true},
		{name: "repeated directive", format: "%H:%M:%H", wantErr: true},
		{name: "both year forms", format: "%Y/%y", wantErr: true},
		{name: "unknown directive is literal", format: "%Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormat(tt.format)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFormat) {
					t.Errorf("Expected ErrInvalidFormat for %q, got %v", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %q: %v", tt.format, err)
			}
		})
	}
}

func TestLayoutParse(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		input   string
		want    int64
		wantErr error
	}{
		{name: "default format", format: "[%Y-%m-%d %H:%M:%S]", input: "[2012-03-04 05:06:07]", want: 1330837567},
		{name: "leap day", format: "%Y-%m-%d", input: "2024-02-29", want: 1709164800},
		{name: "two digit year after 68", format: "%y-%m-%d %H:%M", input: "99-12-31 23:59", want: 946684740},
		{name: "two digit year before 69", format: "%y%m%d", input: "200101", want: 1577836800},
		{name: "missing fields default to 1900", format: "%H:%M", input: "12:30", want: -2208943800},
		{name: "wrong shape", format: "[%Y-%m-%d %H:%M:%S]", input: "2012-03-04 05:06:07", wantErr: ErrWrongShape},
		{name: "short year", format: "%Y-%m-%d", input: "12-03-04", wantErr: ErrWrongShape},
		{name: "literal mismatch", format: "[%Y-%m-%d %H:%M:%S]", input: "(2012-03-04 05:06:07)", wantErr: ErrWrongDate},
		{name: "month out of range", format: "%Y-%m-%d", input: "2012-13-01", wantErr: ErrWrongDate},
		{name: "day past month end", format: "%Y-%m-%d", input: "2023-02-29", wantErr: ErrWrongDate},
		{name: "hour out of range", format: "%H:%M", input: "24:00", wantErr: ErrWrongDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := Compile(tt.format, time.UTC)
			if err != nil {
				t.Fatalf("Failed to compile %q: %v", tt.format, err)
			}
			got, err := layout.Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v for %q, got %v (value %d)", tt.wantErr, tt.input, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Failed to parse %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLayoutShapeUsesWildcards(t *testing.T) {
	layout, err := Compile("[%Y-%m-%d]", nil)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	if !layout.Matches("x2012/03/04y") {
		t.Error("Expected literals to match any character in the shape check")
	}
	if layout.Matches("[2012-03-04] ") {
		t.Error("Expected the shape check to be anchored")
	}
}

func TestLayoutRenderRoundTrip(t *testing.T) {
	layout, err := Compile("[%Y-%m-%d %H:%M:%S]", time.UTC)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	text := layout.Render(1330837567)
	if text != "[2012-03-04 05:06:07]" {
		t.Fatalf("Unexpected rendering: %s", text)
	}
	back, err := layout.Parse(text)
	if err != nil {
		t.Fatalf("Failed to parse rendered text: %v", err)
	}
	if back != 1330837567 {
		t.Errorf("Expected 1330837567, got %d", back)
	}
}

func TestLayoutLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	layout, err := Compile("%Y-%m-%d %H:%M:%S", loc)
	if err != nil {
		t.Fatalf("Failed to compile: %v", err)
	}
	got, err := layout.Parse("2012-03-04 07:06:07")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if got != 1330837567 {
		t.Errorf("Expected offset to be applied, got %d", got)
	}
}

func TestClockLabel(t *testing.T) {
	if got := ClockLabel(1330837567, nil); got != "05:06:07" {
		t.Errorf("Expected 05:06:07, got %s", got)
	}
}
