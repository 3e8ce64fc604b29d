package columns

import (
	"context"
	"fmt"
	"math"

	"circlesgraph/app/diagnostics"
	"circlesgraph/app/series"
)

type accumulator struct {
	method Method
	sum    float64
	top    float64
	count  int
}

func (a *accumulator) add(v float64) {
	if a.count == 0 || math.Abs(v) > math.Abs(a.top) {
		a.top = v
	}
	a.sum += v
	a.count++
}

func (a *accumulator) value() float64 {
	if a.method == MethodTop {
		return a.top
	}
	return a.sum / float64(a.count)
}

// Build groups the records of s into k equal-width time buckets and emits one
// column per non-empty bucket, centered in its bucket. Empty buckets produce
// no column.
func Build(ctx context.Context, s *series.Series, k int, method Method) (*Bucketed, error) {
	if k < 1 {
		return nil, fmt.Errorf("column count must be positive, got %d", k)
	}
	if method != MethodTop {
		method = MethodAverage
	}
	out := &Bucketed{Series: s.Name, Columns: []Column{}}
	if s.Len() == 0 {
		return out, nil
	}

	start := s.First()
	span := s.Last() - start
	distance := float64(span) / float64(k)
	out.Start = start
	out.Distance = distance

	center := func(slot int) int64 {
		if span <= 0 {
			return start
		}
		return int64(math.Round(float64(start) + distance*float64(slot) + distance/2))
	}

	current := -1
	acc := accumulator{method: method}
	flush := func() {
		if acc.count == 0 {
			return
		}
		v := acc.value()
		if len(out.Columns) == 0 || v > out.ValueMax {
			out.ValueMax = v
		}
		if len(out.Columns) == 0 || v < out.ValueMin {
			out.ValueMin = v
		}
		out.Columns = append(out.Columns, Column{
			Index:  len(out.Columns),
			Slot:   current,
			Center: center(current),
			Value:  v,
			Count:  acc.count,
		})
		acc = accumulator{method: method}
	}

	for i, rec := range s.Records {
		// Check for cancellation every 1000 rows
		if i%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		slot := slotFor(rec.Timestamp, start, span, k)
		if slot != current {
			flush()
			current = slot
		}
		acc.add(rec.Value)
	}
	flush()

	return out, nil
}

// ApplyBounds replaces the computed value extremes with the user's pinned
// bounds. A pinned minimum above the data maximum, or a pinned maximum below
// the data minimum, is reported and the computed extreme is kept.
func (b *Bucketed) ApplyBounds(minVal, maxVal Bound, reporter *diagnostics.Reporter) error {
	if minVal.Set {
		if b.ValueMax < minVal.Value {
			err := fmt.Errorf("%w: y_min %g is above the largest value %g of %s", diagnostics.ErrInconsistentAxisBound, minVal.Value, b.ValueMax, b.Series)
			if werr := reporter.Warn(err); werr != nil {
				return werr
			}
		} else {
			b.ValueMin = minVal.Value
		}
	}
	if maxVal.Set {
		if b.ValueMin > maxVal.Value {
			err := fmt.Errorf("%w: y_max %g is below the smallest value %g of %s", diagnostics.ErrInconsistentAxisBound, maxVal.Value, b.ValueMin, b.Series)
			if werr := reporter.Warn(err); werr != nil {
				return werr
			}
		} else {
			b.ValueMax = maxVal.Value
		}
	}
	return nil
}
