package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"circlesgraph/app/pipeline"
	"circlesgraph/app/timestamps"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

var columnsHeader = []any{"index", "time", "timestamp", "value", "records"}

// sheetName turns a series name into a unique, valid sheet name.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, name)
	clean = strings.Trim(clean, "'")
	if clean == "" {
		clean = "series"
	}
	if r := []rune(clean); len(r) > maxSheetName {
		clean = string(r[len(r)-maxSheetName:])
	}

	candidate := clean
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		r := []rune(clean)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// WriteColumnsXLSX writes one sheet per bucketed series with the center time
// and value of every column. Times are rendered with layout when it is set.
func WriteColumnsXLSX(path string, res *pipeline.Result, layout *timestamps.Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	for i, b := range res.Buckets {
		name := sheetName(b.Series, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		header := columnsHeader
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return err
		}
		for r, c := range b.Columns {
			label := fmt.Sprint(c.Center)
			if layout != nil {
				label = layout.Render(c.Center)
			}
			row := []any{c.Index, label, c.Center, c.Value, c.Count}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
