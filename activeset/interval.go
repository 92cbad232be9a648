package activeset

// Interval is a coordinate-only active element for elements that never
// need to be re-emitted: (start, end) as uint32, which suffices since human
// chromosomes are under 2^31 bases (spec.md §4.3 "Storage discipline").
type Interval struct {
	Start, End uint32
}

// IntervalSet specializes Set[Interval] with an expire-by-end-position
// helper. The sweep drivers do not use it; they keep their own element
// type (sweep's activeB) in a Set.
type IntervalSet = Set[Interval]

// ExpireBefore advances the head past every element whose End is <= pos,
// then compacts if the threshold is crossed. Returns the number expired.
func ExpireBefore(s *IntervalSet, pos uint64) int {
	n := s.AdvanceWhile(func(b Interval) bool { return uint64(b.End) <= pos })
	s.CompactIfNeeded()
	return n
}

// LineInterval additionally carries a copy of the original record's bytes,
// for elements that may be re-emitted after the scanner's line buffer has
// been reused by the next read (spec.md §9 "Active-set storage for
// closest").
type LineInterval struct {
	Start, End uint32
	Line       []byte
}

// LineIntervalSet specializes Set[LineInterval].
type LineIntervalSet = Set[LineInterval]

// ExpireLinesBefore is ExpireBefore's LineInterval counterpart.
func ExpireLinesBefore(s *LineIntervalSet, pos uint64) int {
	n := s.AdvanceWhile(func(b LineInterval) bool { return uint64(b.End) <= pos })
	s.CompactIfNeeded()
	return n
}
