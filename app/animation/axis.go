package animation

import (
	"circlesgraph/app/columns"
)

// DefaultSteps is the number of jumps between the value extremes.
const DefaultSteps = 50

// paddingJumps is how many jumps an automatic bound is pushed outward.
const paddingJumps = 20

// Axis is the value range shared by all series and the per-tick movement.
type Axis struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Jump float64 `json:"jump"`
}

// ComputeAxis derives the global value range from the bucketed series. The
// jump is a 1/steps share of the unpadded range. Automatic bounds are then
// pushed paddingJumps jumps outward, stopping at zero when that padding would
// cross it. Pinned bounds are left as they are.
func ComputeAxis(buckets []*columns.Bucketed, minVal, maxVal columns.Bound, steps int) Axis {
	if steps <= 0 {
		steps = DefaultSteps
	}
	var axis Axis
	first := true
	for _, b := range buckets {
		if len(b.Columns) == 0 {
			continue
		}
		if first || b.ValueMax > axis.Max {
			axis.Max = b.ValueMax
		}
		if first || b.ValueMin < axis.Min {
			axis.Min = b.ValueMin
		}
		first = false
	}

	axis.Jump = (axis.Max - axis.Min) / float64(steps)
	pad := paddingJumps * axis.Jump

	if !maxVal.Set {
		if axis.Max <= 0 && axis.Max+pad > 0 {
			axis.Max = 0
		} else {
			axis.Max += pad
		}
	}
	if !minVal.Set {
		if axis.Min >= 0 && axis.Min-pad < 0 {
			axis.Min = 0
		} else {
			axis.Min -= pad
		}
	}
	return axis
}

// Degenerate reports whether the axis has no movement, which happens when
// every column has the same value.
func (a Axis) Degenerate() bool {
	return a.Jump <= 0
}
