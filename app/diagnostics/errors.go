package diagnostics

import (
	"errors"
	"fmt"
)

// Record-level kinds. Out-of-range records are skipped without a report; the
// sentinel exists so callers can still classify them.
var (
	ErrMalformedRecord  = errors.New("malformed record")
	ErrOutOfRangeRecord = errors.New("record outside time window")
	ErrOutOfOrderRecord = errors.New("wrong order")
)

// Source-level kinds.
var (
	ErrEmptySource     = errors.New("no usable records")
	ErrDuplicateSource = errors.New("duplicate input")
	ErrNoUsableInput   = errors.New("no usable input")
)

// Configuration and plan kinds.
var (
	ErrInvalidSetting        = errors.New("invalid setting")
	ErrInconsistentAxisBound = errors.New("axis bound out of range")
	ErrInconsistentTiming    = errors.New("inconsistent speed, fps and time")
)

// RecordError locates a problem at a single input line.
type RecordError struct {
	Source string
	Line   int
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Value)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError creates a new RecordError.
func NewRecordError(source string, line int, value string, err error) *RecordError {
	return &RecordError{
		Source: source,
		Line:   line,
		Value:  value,
		Err:    err,
	}
}

// SourceError reports a problem affecting a whole input source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Kind names the taxonomy entry err belongs to, or "Other".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRecord):
		return "MalformedRecord"
	case errors.Is(err, ErrOutOfRangeRecord):
		return "OutOfRangeRecord"
	case errors.Is(err, ErrOutOfOrderRecord):
		return "OutOfOrderRecord"
	case errors.Is(err, ErrEmptySource):
		return "EmptySource"
	case errors.Is(err, ErrDuplicateSource):
		return "DuplicateSource"
	case errors.Is(err, ErrNoUsableInput):
		return "NoUsableInput"
	case errors.Is(err, ErrInvalidSetting):
		return "InvalidSetting"
	case errors.Is(err, ErrInconsistentAxisBound):
		return "InconsistentAxisBound"
	case errors.Is(err, ErrInconsistentTiming):
		return "InconsistentTiming"
	default:
		return "Other"
	}
}
