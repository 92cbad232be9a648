// Package bed implements the byte-level BED record model shared by every
// sweep-line operation: zero-allocation parsing (C1), buffered output
// formatting (C2), and the half-open interval arithmetic both depend on.
package bed

// Interval is a half-open, 0-based range [Start, End) on some chromosome.
// The chromosome itself is tracked separately by callers (the active set,
// the coordinator) since it is almost always implicit from context.
type Interval struct {
	Start, End uint64
}

// Len returns End - Start. Callers must ensure Start <= End.
func (iv Interval) Len() uint64 {
	return iv.End - iv.Start
}

// Overlaps reports whether iv and other share any base, per spec: same
// chromosome is assumed already established by the caller; here we only
// check A.start < B.end && B.start < A.end.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// OverlapLen returns the number of bases iv and other share, or 0 if they
// don't overlap.
func (iv Interval) OverlapLen(other Interval) uint64 {
	start := iv.Start
	if other.Start > start {
		start = other.Start
	}
	end := iv.End
	if other.End < end {
		end = other.End
	}
	if end <= start {
		return 0
	}
	return end - start
}

// Max returns the larger of two uint64s. Small helper used throughout the
// sweep drivers for clipping/merging coordinates.
func Max(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two uint64s.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
