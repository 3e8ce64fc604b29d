package animation

import (
	"context"
	"math"

	"github.com/gammazero/deque"

	"circlesgraph/app/columns"
)

// Point is one drawn circle.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// SeriesFrame holds the started columns of one series.
type SeriesFrame struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Frame is the state shown by one rendered image.
type Frame struct {
	Number int           `json:"number"`
	Tick   int           `json:"tick"`
	Series []SeriesFrame `json:"series"`
}

// InitialValue is where a column starts: the axis minimum for negative
// targets and the axis maximum otherwise. A target beyond that extreme, which
// only happens with pinned bounds, starts at rest. With no movement every
// column starts at rest.
func InitialValue(target float64, axis Axis) float64 {
	if axis.Jump <= 0 {
		return target
	}
	if target < 0 {
		if axis.Min > target {
			return target
		}
		return axis.Min
	}
	if axis.Max < target {
		return target
	}
	return axis.Max
}

// Advance moves current one jump toward target. The result snaps to target
// once it is within reach, changes sign against it, or would pass it.
func Advance(current, target, jump float64) float64 {
	if current == target || jump <= 0 {
		return target
	}
	dir := 1.0
	if target < 0 {
		dir = -1
	}
	next := current - dir*jump
	switch {
	case math.Abs(next) <= math.Abs(target):
		return target
	case (next > 0 && target < 0) || (next < 0 && target > 0):
		return target
	case (current-target)*(next-target) <= 0:
		return target
	case math.Abs(next-target) <= epsilon*jump:
		return target
	}
	return next
}

type columnState struct {
	column  columns.Column
	current float64
}

type track struct {
	name    string
	pending deque.Deque[*columnState]
	active  []*columnState
}

// Interpolator steps every column from its initial value toward its target,
// starting column i of each series once the tick counter passes i*delay.
type Interpolator struct {
	axis   Axis
	delay  int
	tick   int
	tracks []*track
}

// NewInterpolator prepares the columns of every series at their initial values.
func NewInterpolator(buckets []*columns.Bucketed, axis Axis, delay int) *Interpolator {
	if delay < 0 {
		delay = 0
	}
	ip := &Interpolator{axis: axis, delay: delay}
	for _, b := range buckets {
		tr := &track{name: b.Series}
		for _, c := range b.Columns {
			tr.pending.PushBack(&columnState{column: c, current: InitialValue(c.Value, axis)})
		}
		ip.tracks = append(ip.tracks, tr)
	}
	return ip
}

// Tick returns the number of ticks applied so far.
func (ip *Interpolator) Tick() int {
	return ip.tick
}

// Step applies one tick: columns whose start has come are activated, then every
// active column advances one jump.
func (ip *Interpolator) Step() {
	ip.tick++
	for _, tr := range ip.tracks {
		for tr.pending.Len() > 0 && tr.pending.Front().column.Index*ip.delay < ip.tick {
			tr.active = append(tr.active, tr.pending.PopFront())
		}
		for _, cs := range tr.active {
			cs.current = Advance(cs.current, cs.column.Value, ip.axis.Jump)
		}
	}
}

// AdvanceTo steps until tick is reached. Earlier ticks are ignored.
func (ip *Interpolator) AdvanceTo(tick int) {
	for ip.tick < tick {
		ip.Step()
	}
}

// Settled reports whether every column has started and reached its value.
func (ip *Interpolator) Settled() bool {
	for _, tr := range ip.tracks {
		if tr.pending.Len() > 0 {
			return false
		}
		for _, cs := range tr.active {
			if cs.current != cs.column.Value {
				return false
			}
		}
	}
	return true
}

// Snapshot returns the current state as frame number n.
func (ip *Interpolator) Snapshot(n int) Frame {
	f := Frame{Number: n, Tick: ip.tick, Series: make([]SeriesFrame, 0, len(ip.tracks))}
	for _, tr := range ip.tracks {
		sf := SeriesFrame{Name: tr.name, Points: make([]Point, 0, len(tr.active))}
		for _, cs := range tr.active {
			sf.Points = append(sf.Points, Point{Time: cs.column.Center, Value: cs.current})
		}
		f.Series = append(f.Series, sf)
	}
	return f
}

// Frames emits plan.RealFrameCount frames in order, numbered from 1. It stops
// at the first error returned by fn or when ctx is done.
func Frames(ctx context.Context, buckets []*columns.Bucketed, axis Axis, plan Plan, fn func(Frame) error) error {
	ip := NewInterpolator(buckets, axis, plan.Delay)
	for n := 1; n <= plan.RealFrameCount; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ip.AdvanceTo(plan.TickForFrame(n))
		if err := fn(ip.Snapshot(n)); err != nil {
			return err
		}
	}
	return nil
}
