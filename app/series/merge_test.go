package series

import (
	"testing"
)

func makeSeries(name string, timestamps ...int64) *Series {
	s := &Series{Name: name}
	for i, ts := range timestamps {
		s.Records = append(s.Records, Record{Timestamp: ts, Value: float64(i)})
	}
	return s
}

func TestMergeCombinesDisjointSources(t *testing.T) {
	late := makeSeries("late", 30, 40)
	early := makeSeries("early", 10, 20)

	res := Merge([]*Series{late, early})
	if res.Mode != Combined {
		t.Fatalf("Expected combined mode, got %s", res.Mode)
	}
	if len(res.Series) != 1 {
		t.Fatalf("Expected one series, got %d", len(res.Series))
	}
	got := res.Series[0]
	if got.Name != "early+late" {
		t.Errorf("Unexpected name %q", got.Name)
	}
	want := []int64{10, 20, 30, 40}
	for i, ts := range want {
		if got.Records[i].Timestamp != ts {
			t.Errorf("Record %d: expected %d, got %d", i, ts, got.Records[i].Timestamp)
		}
	}
	if res.TotalRecords() != 4 {
		t.Errorf("Expected 4 records, got %d", res.TotalRecords())
	}
}

func TestMergeKeepsOverlappingSourcesApart(t *testing.T) {
	tests := []struct {
		name string
		a, b *Series
	}{
		{name: "interleaved", a: makeSeries("a", 10, 30), b: makeSeries("b", 20, 40)},
		{name: "touching endpoints", a: makeSeries("a", 10, 20), b: makeSeries("b", 20, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Merge([]*Series{tt.b, tt.a})
			if res.Mode != Parallel {
				t.Fatalf("Expected parallel mode, got %s", res.Mode)
			}
			if len(res.Series) != 2 || res.Series[0].Name != "a" || res.Series[1].Name != "b" {
				t.Errorf("Expected series ordered by first timestamp, got %v, %v", res.Series[0].Name, res.Series[1].Name)
			}
			lo, hi := res.Span()
			if lo != 10 || hi != tt.b.Last() {
				t.Errorf("Unexpected span %d..%d", lo, hi)
			}
		})
	}
}

func TestMergeStableForEqualStarts(t *testing.T) {
	a := makeSeries("a", 10, 11)
	b := makeSeries("b", 10, 12)
	res := Merge([]*Series{a, b})
	if res.Series[0].Name != "a" || res.Series[1].Name != "b" {
		t.Errorf("Expected input order to be kept for ties")
	}
}

func TestMergeSingleSource(t *testing.T) {
	res := Merge([]*Series{makeSeries("only", 1, 2)})
	if res.Mode != Combined || len(res.Series) != 1 || res.Series[0].Name != "only" {
		t.Errorf("Unexpected result for a single source: %+v", res)
	}
}
