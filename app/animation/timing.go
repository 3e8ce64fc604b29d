package animation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"circlesgraph/app/columns"
	"circlesgraph/app/diagnostics"
)

const (
	DefaultSpeed = 1.0
	DefaultFPS   = 25.0
	DefaultDelay = 10

	// minDerived keeps derived rates from rounding down to zero.
	minDerived = 0.01
	epsilon    = 1e-9
)

// Timing holds the user's playback settings. Zero means unset.
type Timing struct {
	Speed    float64 `json:"speed"`
	FPS      float64 `json:"fps"`
	Duration float64 `json:"duration"`
}

// Plan is the reconciled playback plan.
type Plan struct {
	// FrameCount is the number of animation ticks until every column rests.
	FrameCount int `json:"frameCount"`
	// RealFrameCount is the number of images rendered, FrameCount/Speed rounded up.
	RealFrameCount int     `json:"realFrameCount"`
	Digits         int     `json:"digits"`
	Speed          float64 `json:"speed"`
	FPS            float64 `json:"fps"`
	Duration       float64 `json:"duration"`
	Delay          int     `json:"delay"`
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// ResolveTiming fills in defaults before the frame count is known. When all
// three settings are given but speed*fps differs from the duration, a warning
// is reported and every setting falls back to its default.
func ResolveTiming(t Timing, reporter *diagnostics.Reporter) (Timing, error) {
	hasSpeed, hasFPS, hasDuration := t.Speed > 0, t.FPS > 0, t.Duration > 0

	switch {
	case hasSpeed && hasFPS && hasDuration:
		if math.Abs(t.Speed*t.FPS-t.Duration) > epsilon*math.Max(1, t.Duration) {
			err := fmt.Errorf("%w: speed %g * fps %g != time %g, using defaults", diagnostics.ErrInconsistentTiming, t.Speed, t.FPS, t.Duration)
			if werr := reporter.Warn(err); werr != nil {
				return t, werr
			}
			return Timing{Speed: DefaultSpeed, FPS: DefaultFPS}, nil
		}
	case hasDuration && hasFPS, hasDuration && hasSpeed:
	case hasDuration:
		t.FPS = DefaultFPS
	case hasFPS && hasSpeed:
	case hasFPS:
		t.Speed = DefaultSpeed
	case hasSpeed:
		t.FPS = DefaultFPS
	default:
		t.Speed = DefaultSpeed
		t.FPS = DefaultFPS
	}
	return t, nil
}

// moves is the number of jumps a column needs to reach its target.
func moves(initial, target, jump float64) int {
	if jump <= 0 {
		return 0
	}
	return int(math.Ceil(math.Abs(initial-target)/jump - epsilon))
}

// FrameCount returns the number of ticks after which every column of every
// series has reached its value: for each column, its stagger offset
// index*delay plus the jumps it travels. The result is at least the length of
// the stagger itself, delay times the longest column count, and at least 1.
func FrameCount(buckets []*columns.Bucketed, axis Axis, delay int) int {
	if delay < 0 {
		delay = 0
	}
	frames := 1
	for _, b := range buckets {
		if n := len(b.Columns) * delay; n > frames {
			frames = n
		}
		for _, c := range b.Columns {
			m := moves(InitialValue(c.Value, axis), c.Value, axis.Jump)
			if m < 1 {
				m = 1
			}
			if need := c.Index*delay + m; need > frames {
				frames = need
			}
		}
	}
	return frames
}

// Reconcile resolves the timing against the frame count. A given duration
// determines whichever of speed or fps was not given, rounded to two decimals.
func Reconcile(frameCount int, t Timing, delay int, reporter *diagnostics.Reporter) (Plan, error) {
	t, err := ResolveTiming(t, reporter)
	if err != nil {
		return Plan{}, err
	}
	if t.Duration > 0 {
		if t.Speed <= 0 {
			t.Speed = math.Max(round2(float64(frameCount)/(t.FPS*t.Duration)), minDerived)
		}
		if t.FPS <= 0 {
			t.FPS = math.Max(round2(float64(frameCount)/(t.Speed*t.Duration)), minDerived)
		}
	}

	realFrames := int(math.Ceil(float64(frameCount)/t.Speed - epsilon))
	if realFrames < 1 {
		realFrames = 1
	}
	duration := t.Duration
	if duration <= 0 {
		duration = round2(float64(realFrames) / t.FPS)
	}

	return Plan{
		FrameCount:     frameCount,
		RealFrameCount: realFrames,
		Digits:         len(strconv.Itoa(realFrames)),
		Speed:          t.Speed,
		FPS:            t.FPS,
		Duration:       duration,
		Delay:          delay,
	}, nil
}

// TickForFrame maps a 1-based rendered frame to the animation tick it shows.
// The last frame always shows the final tick.
func (p Plan) TickForFrame(frame int) int {
	tick := int(math.Ceil(float64(frame)*p.Speed - epsilon))
	if tick > p.FrameCount || frame >= p.RealFrameCount {
		tick = p.FrameCount
	}
	if tick < 1 {
		tick = 1
	}
	return tick
}
