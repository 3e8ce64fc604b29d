package fileloader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// defaultJSONPath selects the elements of a top-level array.
const defaultJSONPath = "$[*]"

// parseJSONData parses a JSON document. Content where every non-empty line
// is a complete value is read as JSON Lines.
func parseJSONData(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("data is empty")
	}
	if values, ok := parseJSONLines(data); ok {
		return values, nil
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return doc, nil
}

func parseJSONLines(data []byte) ([]any, bool) {
	var values []any
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := oj.ParseString(line)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, len(values) > 1
}

func scalarText(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case int64:
		return strconv.FormatInt(vv, 10)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(vv)
	}
}

func lookupText(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return scalarText(v)
		}
	}
	return ""
}

// jsonLines converts the elements selected by expression into record lines.
// Elements may be [timestamp, value] pairs, objects with timestamp and value
// fields, or strings holding a whole line.
func jsonLines(data []byte, expression string) ([]string, error) {
	doc, err := parseJSONData(data)
	if err != nil {
		return nil, err
	}
	if expression == "" {
		expression = defaultJSONPath
	}
	x, err := jp.ParseString(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", expression, err)
	}

	results := x.Get(doc)
	if len(results) == 1 && !strings.HasSuffix(expression, "[*]") {
		if arr, ok := results[0].([]any); ok {
			results = arr
		}
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		switch v := r.(type) {
		case []any:
			if len(v) < 2 {
				lines = append(lines, scalarText(firstOrNil(v)))
				continue
			}
			lines = append(lines, scalarText(v[0])+" "+scalarText(v[1]))
		case map[string]any:
			ts := lookupText(v, "timestamp", "time")
			value := lookupText(v, "value")
			lines = append(lines, strings.TrimSpace(ts+" "+value))
		default:
			lines = append(lines, scalarText(v))
		}
	}
	return lines, nil
}

func firstOrNil(v []any) any {
	if len(v) == 0 {
		return nil
	}
	return v[0]
}
