package export

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"circlesgraph/app/pipeline"
)

// PlanDocument builds the JSON document describing a run: merge mode, axis,
// frame plan, the columns of every series and the sources they came from.
func PlanDocument(res *pipeline.Result) map[string]any {
	doc := map[string]any{
		"columnCount": int64(res.ColumnCount),
		"axis": map[string]any{
			"min":  res.Axis.Min,
			"max":  res.Axis.Max,
			"jump": res.Axis.Jump,
		},
		"plan": map[string]any{
			"frameCount":     int64(res.Plan.FrameCount),
			"realFrameCount": int64(res.Plan.RealFrameCount),
			"digits":         int64(res.Plan.Digits),
			"speed":          res.Plan.Speed,
			"fps":            res.Plan.FPS,
			"duration":       res.Plan.Duration,
			"delay":          int64(res.Plan.Delay),
		},
		"records": map[string]any{
			"lines":            int64(res.Stats.Lines),
			"accepted":         int64(res.Stats.Accepted),
			"invalidTimestamp": int64(res.Stats.InvalidTimestamp),
			"invalidValue":     int64(res.Stats.InvalidValue),
			"outOfRange":       int64(res.Stats.OutOfRange),
			"outOfOrder":       int64(res.Stats.OutOfOrder),
			"droppedSources":   int64(res.Stats.DroppedSources),
		},
	}
	if res.Merge != nil {
		doc["mergeMode"] = res.Merge.Mode.String()
	}

	series := make([]any, 0, len(res.Buckets))
	for i, b := range res.Buckets {
		cols := make([]any, 0, len(b.Columns))
		for _, c := range b.Columns {
			cols = append(cols, map[string]any{
				"index":  int64(c.Index),
				"slot":   int64(c.Slot),
				"center": c.Center,
				"value":  c.Value,
				"count":  int64(c.Count),
			})
		}
		entry := map[string]any{
			"name":     b.Series,
			"start":    b.Start,
			"distance": b.Distance,
			"valueMin": b.ValueMin,
			"valueMax": b.ValueMax,
			"columns":  cols,
		}
		if i < len(res.Colors) {
			entry["color"] = res.Colors[i]
		}
		series = append(series, entry)
	}
	doc["series"] = series

	sources := make([]any, 0, len(res.Sources))
	for _, src := range res.Sources {
		sources = append(sources, map[string]any{
			"id":          src.ID,
			"kind":        src.Kind.String(),
			"compression": src.Compression.String(),
			"fingerprint": src.Fingerprint,
			"lines":       int64(len(src.Lines)),
		})
	}
	doc["sources"] = sources
	return doc
}

// WritePlanJSON writes PlanDocument of res to path.
func WritePlanJSON(path string, res *pipeline.Result) error {
	data, err := oj.Marshal(PlanDocument(res), &oj.Options{Indent: 2, Sort: true})
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}
