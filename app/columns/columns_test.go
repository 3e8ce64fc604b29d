package columns

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"circlesgraph/app/diagnostics"
	"circlesgraph/app/series"
)

func seriesOf(points ...[2]float64) *series.Series {
	s := &series.Series{Name: "test"}
	for _, p := range points {
		s.Records = append(s.Records, series.Record{Timestamp: int64(p[0]), Value: p[1]})
	}
	return s
}

func TestChooseColumnCount(t *testing.T) {
	tests := []struct {
		name                      string
		total, requested, maxCols int
		want                      int
	}{
		{name: "requested wins", total: 5, requested: 12, maxCols: 30, want: 12},
		{name: "capped by max", total: 500, maxCols: 30, want: 30},
		{name: "fewer records than cap", total: 7, maxCols: 30, want: 7},
		{name: "default cap", total: 100, want: MaxColumnsDefault},
		{name: "never zero", total: 0, maxCols: 30, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseColumnCount(tt.total, tt.requested, tt.maxCols); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestBuildAverage(t *testing.T) {
	var points [][2]float64
	for i := 0; i <= 10; i++ {
		points = append(points, [2]float64{float64(i * 10), float64(i + 1)})
	}
	b, err := Build(context.Background(), seriesOf(points...), 5, MethodAverage)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Column{
		{Index: 0, Slot: 0, Center: 10, Value: 1.5, Count: 2},
		{Index: 1, Slot: 1, Center: 30, Value: 3.5, Count: 2},
		{Index: 2, Slot: 2, Center: 50, Value: 5.5, Count: 2},
		{Index: 3, Slot: 3, Center: 70, Value: 7.5, Count: 2},
		{Index: 4, Slot: 4, Center: 90, Value: 10, Count: 3},
	}
	if len(b.Columns) != len(want) {
		t.Fatalf("Expected %d columns, got %d: %+v", len(want), len(b.Columns), b.Columns)
	}
	for i := range want {
		if b.Columns[i] != want[i] {
			t.Errorf("Column %d: expected %+v, got %+v", i, want[i], b.Columns[i])
		}
	}
	if b.Distance != 20 || b.ValueMin != 1.5 || b.ValueMax != 10 {
		t.Errorf("Unexpected distance/extremes: %v %v %v", b.Distance, b.ValueMin, b.ValueMax)
	}
}

func TestBuildBoundaryRecordOpensNextColumn(t *testing.T) {
	b, err := Build(context.Background(), seriesOf([2]float64{0, 1}, [2]float64{50, 2}, [2]float64{100, 3}), 2, MethodAverage)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %+v", b.Columns)
	}
	if b.Columns[0].Value != 1 || b.Columns[0].Count != 1 {
		t.Errorf("Expected the first column to hold only the start record, got %+v", b.Columns[0])
	}
	if b.Columns[1].Value != 2.5 || b.Columns[1].Count != 2 {
		t.Errorf("Expected the boundary and final records in the last column, got %+v", b.Columns[1])
	}
}

func TestBuildSkipsEmptyBuckets(t *testing.T) {
	b, err := Build(context.Background(), seriesOf([2]float64{0, 1}, [2]float64{1, 3}, [2]float64{100, 5}), 4, MethodAverage)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %+v", b.Columns)
	}
	if b.Columns[1].Index != 1 || b.Columns[1].Slot != 3 {
		t.Errorf("Expected consecutive index and original slot, got %+v", b.Columns[1])
	}
}

func TestBuildTop(t *testing.T) {
	b, err := Build(context.Background(), seriesOf(
		[2]float64{0, 3}, [2]float64{1, -5}, [2]float64{2, 4},
		[2]float64{10, 2}, [2]float64{11, -2},
	), 2, MethodTop)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %+v", b.Columns)
	}
	if b.Columns[0].Value != -5 {
		t.Errorf("Expected largest magnitude with sign kept, got %v", b.Columns[0].Value)
	}
	if b.Columns[1].Value != 2 {
		t.Errorf("Expected ties to keep the first value, got %v", b.Columns[1].Value)
	}
}

func TestBuildSingleRecord(t *testing.T) {
	b, err := Build(context.Background(), seriesOf([2]float64{1000, 7}), 30, MethodAverage)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(b.Columns) != 1 || b.Columns[0].Center != 1000 || b.Columns[0].Value != 7 {
		t.Errorf("Unexpected columns %+v", b.Columns)
	}
}

func TestBuildColumnInvariants(t *testing.T) {
	var points [][2]float64
	ts := 1577836800.0
	for i := 0; i < 997; i++ {
		ts += float64(1 + (i*7)%13)
		points = append(points, [2]float64{ts, math.Sin(float64(i))})
	}
	s := seriesOf(points...)
	for _, k := range []int{1, 3, 7, 30, 1000} {
		b, err := Build(context.Background(), s, k, MethodAverage)
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(b.Columns) > k {
			t.Errorf("k=%d: got %d columns", k, len(b.Columns))
		}
		total := 0
		for i, c := range b.Columns {
			total += c.Count
			if c.Center < s.First() || c.Center > s.Last() {
				t.Errorf("k=%d: center %d outside [%d, %d]", k, c.Center, s.First(), s.Last())
			}
			if i > 0 && c.Center <= b.Columns[i-1].Center {
				t.Errorf("k=%d: centers not increasing at %d", k, i)
			}
		}
		if total != s.Len() {
			t.Errorf("k=%d: columns hold %d records, expected %d", k, total, s.Len())
		}
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, seriesOf([2]float64{0, 1}), 1, MethodAverage)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestApplyBounds(t *testing.T) {
	reporter := diagnostics.NewReporter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), true)

	t.Run("pinned bounds replace extremes", func(t *testing.T) {
		b := &Bucketed{Series: "s", ValueMin: 2, ValueMax: 8}
		if err := b.ApplyBounds(Bound{Set: true, Value: 0}, Bound{Set: true, Value: 10}, reporter); err != nil {
			t.Fatalf("ApplyBounds failed: %v", err)
		}
		if b.ValueMin != 0 || b.ValueMax != 10 {
			t.Errorf("Unexpected extremes %v..%v", b.ValueMin, b.ValueMax)
		}
	})

	t.Run("out of range bounds fall back", func(t *testing.T) {
		before := reporter.Count("InconsistentAxisBound")
		b := &Bucketed{Series: "s", ValueMin: 2, ValueMax: 8}
		if err := b.ApplyBounds(Bound{Set: true, Value: 9}, Bound{Set: true, Value: 1}, reporter); err != nil {
			t.Fatalf("ApplyBounds failed: %v", err)
		}
		if b.ValueMin != 2 || b.ValueMax != 8 {
			t.Errorf("Expected computed extremes to be kept, got %v..%v", b.ValueMin, b.ValueMax)
		}
		if got := reporter.Count("InconsistentAxisBound") - before; got != 2 {
			t.Errorf("Expected 2 warnings, got %d", got)
		}
	})
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod(" TOP "); err != nil || m != MethodTop {
		t.Errorf("Expected top, got %v %v", m, err)
	}
	if _, err := ParseMethod("median"); err == nil {
		t.Error("Expected unknown method to fail")
	}
}
