package fileloader

import (
	"circlesgraph/app/timestamps"
)

// Kind is the layout of a source's content.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindXLSX
	KindSQLite
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindXLSX:
		return "xlsx"
	case KindSQLite:
		return "sqlite"
	default:
		return "text"
	}
}

// Options control how sources are read.
type Options struct {
	// SkipHeader drops the first non-empty line of text and xlsx sources
	SkipHeader bool
	// JSONPath selects the records of JSON sources, "$[*]" when empty
	JSONPath string
	// Sheet selects the xlsx sheet, the first one when empty
	Sheet string
	// Layout renders archived timestamps back into text for sqlite:// sources
	Layout *timestamps.Layout
}

// Source is one loaded input, ready for validation.
type Source struct {
	ID          string
	Kind        Kind
	Compression CompressionType
	Lines       []string
	Fingerprint string
	Size        int
	Warning     string
}
