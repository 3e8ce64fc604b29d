package series

import (
	"sort"
	"strings"
)

// MergeMode tells whether sources were joined into one series.
type MergeMode int

const (
	// Combined means the sources did not overlap and were concatenated.
	Combined MergeMode = iota
	// Parallel means at least two sources overlap and each is drawn on its own.
	Parallel
)

func (m MergeMode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "combined"
}

// MergeResult is the output of Merge.
type MergeResult struct {
	Mode   MergeMode
	Series []*Series
}

// TotalRecords counts records over all series.
func (m *MergeResult) TotalRecords() int {
	n := 0
	for _, s := range m.Series {
		n += s.Len()
	}
	return n
}

// Span returns the earliest and latest timestamp across all series.
func (m *MergeResult) Span() (int64, int64) {
	var lo, hi int64
	for i, s := range m.Series {
		if i == 0 || s.First() < lo {
			lo = s.First()
		}
		if i == 0 || s.Last() > hi {
			hi = s.Last()
		}
	}
	return lo, hi
}

// Overlaps reports whether any two adjacent series, ordered by first
// timestamp, share time: the earlier one ends at or after the later one starts.
func Overlaps(sorted []*Series) bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Last() >= sorted[i].First() {
			return true
		}
	}
	return false
}

// Merge orders non-empty series by first timestamp, keeping input order for
// ties. Disjoint series are concatenated into one; overlapping ones are kept
// apart in that order.
func Merge(in []*Series) *MergeResult {
	sorted := make([]*Series, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].First() < sorted[j].First()
	})

	if len(sorted) <= 1 || Overlaps(sorted) {
		mode := Combined
		if len(sorted) > 1 {
			mode = Parallel
		}
		return &MergeResult{Mode: mode, Series: sorted}
	}

	names := make([]string, 0, len(sorted))
	total := 0
	for _, s := range sorted {
		names = append(names, s.Name)
		total += s.Len()
	}
	joined := &Series{Name: strings.Join(names, "+"), Records: make([]Record, 0, total)}
	for _, s := range sorted {
		joined.Records = append(joined.Records, s.Records...)
	}
	return &MergeResult{Mode: Combined, Series: []*Series{joined}}
}
