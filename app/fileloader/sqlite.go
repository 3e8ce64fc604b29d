package fileloader

import (
	"context"
	"fmt"
	"strings"

	"circlesgraph/app/store"
	"circlesgraph/app/timestamps"
)

// parseSQLiteRef splits "sqlite://path/to/archive.db#series" into its parts.
func parseSQLiteRef(ref string) (string, string, error) {
	rest := ref[len("sqlite://"):]
	file, name, ok := strings.Cut(rest, "#")
	if !ok || file == "" || name == "" {
		return "", "", fmt.Errorf("invalid sqlite reference %s: expected sqlite://file#series", ref)
	}
	return file, name, nil
}

// sqliteLines loads an archived series and renders it with layout so it
// passes through the same validation as any other source.
func sqliteLines(ctx context.Context, ref string, layout *timestamps.Layout) ([]string, error) {
	if layout == nil {
		return nil, fmt.Errorf("sqlite source %s needs a time format", ref)
	}
	file, name, err := parseSQLiteRef(ref)
	if err != nil {
		return nil, err
	}
	archive, err := store.Open(file)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	s, err := archive.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, s.Len())
	for _, rec := range s.Records {
		lines = append(lines, fmt.Sprintf("%s %s", layout.Render(rec.Timestamp), scalarText(rec.Value)))
	}
	return lines, nil
}
