package columns

import (
	"fmt"
	"strings"
)

// Method reduces the values of one bucket to a single column value.
type Method string

const (
	// MethodAverage takes the arithmetic mean.
	MethodAverage Method = "average"
	// MethodTop takes the value with the largest magnitude, sign kept.
	MethodTop Method = "top"
)

// ParseMethod accepts "average" or "top", case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodAverage:
		return MethodAverage, nil
	case MethodTop:
		return MethodTop, nil
	default:
		return "", fmt.Errorf("unknown method %q (expected average or top)", s)
	}
}

// Bound is an optional user-pinned value axis bound.
type Bound struct {
	Set   bool
	Value float64
}

// Column is one non-empty bucket of a series.
type Column struct {
	// Index is the position among the emitted columns of the series.
	Index int `json:"index"`
	// Slot is the bucket number in [0, K).
	Slot   int     `json:"slot"`
	Center int64   `json:"center"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
}

// Bucketed holds the columns of one series with its value extremes.
type Bucketed struct {
	Series   string   `json:"series"`
	Columns  []Column `json:"columns"`
	Start    int64    `json:"start"`
	Distance float64  `json:"distance"`
	ValueMin float64  `json:"valueMin"`
	ValueMax float64  `json:"valueMax"`
}
