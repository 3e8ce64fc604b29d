package columns

// MaxColumnsDefault caps the automatic column count.
const MaxColumnsDefault = 30

// ChooseColumnCount returns the number of buckets per series. A positive
// requested count wins; otherwise it is the total record count capped at
// maxColumns. The result is at least 1.
func ChooseColumnCount(totalRecords, requested, maxColumns int) int {
	if requested > 0 {
		return requested
	}
	if maxColumns <= 0 {
		maxColumns = MaxColumnsDefault
	}
	k := totalRecords
	if k > maxColumns {
		k = maxColumns
	}
	if k < 1 {
		k = 1
	}
	return k
}

// slotFor maps a timestamp to its bucket. Buckets are half-open
// [start+i*d, start+(i+1)*d) except the last, which also holds the final
// record. Integer arithmetic keeps records on a boundary in the upper bucket.
func slotFor(ts, start, span int64, k int) int {
	if span <= 0 {
		return 0
	}
	slot := int((ts - start) * int64(k) / span)
	if slot >= k {
		slot = k - 1
	}
	if slot < 0 {
		slot = 0
	}
	return slot
}
