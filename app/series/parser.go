package series

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"

	"circlesgraph/app/diagnostics"
	"circlesgraph/app/timestamps"
)

var (
	errMissingValue = errors.New("missing value")
	errBadValue     = errors.New("wrong value")
)

// SplitLine separates a line at its last run of whitespace into the timestamp
// text and the value text. Timestamps may therefore contain spaces. A line
// without whitespace is returned whole as the timestamp.
func SplitLine(line string) (timestamp, value string) {
	line = strings.TrimSpace(line)
	end := strings.LastIndexFunc(line, unicode.IsSpace)
	if end < 0 {
		return line, ""
	}
	value = line[end+1:]
	timestamp = strings.TrimRightFunc(line[:end], unicode.IsSpace)
	return timestamp, value
}

// ParseValue parses a finite float. NaN and infinities are rejected.
func ParseValue(s string) (float64, error) {
	if s == "" {
		return 0, errMissingValue
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadValue, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", errBadValue, s)
	}
	return v, nil
}

// Stats counts line outcomes over everything a Validator has seen.
type Stats struct {
	Lines            int
	Accepted         int
	InvalidTimestamp int
	InvalidValue     int
	OutOfRange       int
	OutOfOrder       int
	DroppedSources   int
}

func (s *Stats) add(o Outcome) {
	switch o {
	case Accepted:
		s.Accepted++
	case InvalidTimestamp:
		s.InvalidTimestamp++
	case InvalidValue:
		s.InvalidValue++
	case OutOfRange:
		s.OutOfRange++
	case OutOfOrder:
		s.OutOfOrder++
	}
}

// Validator turns raw source lines into validated series.
type Validator struct {
	layout   *timestamps.Layout
	window   Window
	reporter *diagnostics.Reporter
	logger   *slog.Logger
	stats    Stats
}

// NewValidator creates a Validator that parses timestamps with layout and keeps
// records inside window.
func NewValidator(layout *timestamps.Layout, window Window, reporter *diagnostics.Reporter, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		layout:   layout,
		window:   window,
		reporter: reporter,
		logger:   logger,
	}
}

// Stats returns the outcome counts so far.
func (v *Validator) Stats() Stats {
	return v.stats
}

// ParseLine parses a single line without order or window checks.
func (v *Validator) ParseLine(line string) (Record, Outcome, error) {
	if strings.TrimSpace(line) == "" {
		return Record{}, Blank, nil
	}
	tsText, valueText := SplitLine(line)
	ts, err := v.layout.Parse(tsText)
	if err != nil {
		return Record{}, InvalidTimestamp, err
	}
	value, err := ParseValue(valueText)
	if err != nil {
		return Record{}, InvalidValue, err
	}
	return Record{Timestamp: ts, Value: value}, Accepted, nil
}

// Validate checks every line of one source. Malformed and out-of-order lines
// are reported and dropped, lines outside the window are skipped silently.
// It returns nil when no record survives; the returned error is only non-nil
// when the reporter turns a warning into a fatal error or ctx is done.
func (v *Validator) Validate(ctx context.Context, in Input) (*Series, error) {
	s := &Series{Name: in.Name}
	var prev int64
	havePrev := false

	for i, line := range in.Lines {
		if i%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		lineNo := i + 1

		rec, outcome, err := v.ParseLine(line)
		if outcome == Blank {
			continue
		}
		v.stats.Lines++
		if err == nil && !v.window.Contains(rec.Timestamp) {
			outcome = OutOfRange
		}
		if outcome == Accepted && havePrev && rec.Timestamp <= prev {
			outcome = OutOfOrder
			err = diagnostics.ErrOutOfOrderRecord
		}
		v.stats.add(outcome)

		switch outcome {
		case Accepted:
			s.Records = append(s.Records, rec)
			prev = rec.Timestamp
			havePrev = true
		case OutOfRange:
			v.logger.Debug("record outside time window", "source", in.Name, "line", lineNo)
		case OutOfOrder:
			if werr := v.reporter.Warn(diagnostics.NewRecordError(in.Name, lineNo, strings.TrimSpace(line), err)); werr != nil {
				return nil, werr
			}
		default:
			cause := fmt.Errorf("%w: %v", diagnostics.ErrMalformedRecord, err)
			if werr := v.reporter.Warn(diagnostics.NewRecordError(in.Name, lineNo, strings.TrimSpace(line), cause)); werr != nil {
				return nil, werr
			}
		}
	}

	if len(s.Records) == 0 {
		v.stats.DroppedSources++
		if werr := v.reporter.Warn(&diagnostics.SourceError{Source: in.Name, Err: diagnostics.ErrEmptySource}); werr != nil {
			return nil, werr
		}
		return nil, nil
	}
	return s, nil
}

// ValidateAll validates every input in order and drops the empty ones. It
// fails with ErrNoUsableInput when nothing is left.
func (v *Validator) ValidateAll(ctx context.Context, inputs []Input) ([]*Series, error) {
	var out []*Series
	for _, in := range inputs {
		s, err := v.Validate(ctx, in)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: all %d sources were empty or invalid", diagnostics.ErrNoUsableInput, len(inputs))
	}
	return out, nil
}
