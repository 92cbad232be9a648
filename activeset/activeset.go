// Package activeset implements the bounded working-set buffer (C3) shared
// by every sweep driver: an append-only slice with a head index so that
// "removing" the front of the active set is O(1) amortized, with periodic
// compaction so the backing array doesn't grow without bound. Grounded
// line-for-line on original_source/src/streaming/active_set.rs's
// Vec+head_idx ActiveSet<T>.
package activeset

// CompactionThreshold is the default head-index threshold (spec.md §4.3)
// above which, if it also exceeds half the buffer length, CompactIfNeeded
// drains the dead prefix.
const CompactionThreshold = 4096

// Set is a generic active set: push to append, AsSlice to view the live
// elements, AdvanceWhile to drop from the front while a predicate holds.
type Set[T any] struct {
	data      []T
	head      int
	maxActive int
}

// New returns an empty Set with a small initial capacity.
func New[T any]() *Set[T] {
	return NewWithCapacity[T](1024)
}

// NewWithCapacity returns an empty Set pre-sized to capacity.
func NewWithCapacity[T any](capacity int) *Set[T] {
	return &Set[T]{data: make([]T, 0, capacity)}
}

// Push appends value to the set.
func (s *Set[T]) Push(value T) {
	s.data = append(s.data, value)
	if n := s.Len(); n > s.maxActive {
		s.maxActive = n
	}
}

// Len returns the number of logically active elements.
func (s *Set[T]) Len() int {
	return len(s.data) - s.head
}

// IsEmpty reports whether there are no logically active elements.
func (s *Set[T]) IsEmpty() bool {
	return s.head >= len(s.data)
}

// AsSlice returns a view of the currently active elements. The slice is
// invalidated by the next Push, AdvanceWhile, or CompactIfNeeded call.
func (s *Set[T]) AsSlice() []T {
	return s.data[s.head:]
}

// Front returns the first active element and true, or the zero value and
// false if the set is empty.
func (s *Set[T]) Front() (T, bool) {
	var zero T
	if s.IsEmpty() {
		return zero, false
	}
	return s.data[s.head], true
}

// Get returns the element at logical index i within the active region.
func (s *Set[T]) Get(i int) T {
	return s.data[s.head+i]
}

// AdvanceWhile advances the head index while cond holds for the front
// element, returning the number of elements advanced past.
func (s *Set[T]) AdvanceWhile(cond func(T) bool) int {
	start := s.head
	for s.head < len(s.data) && cond(s.data[s.head]) {
		s.head++
	}
	return s.head - start
}

// CompactIfNeeded drains the dead prefix and resets the head index to 0
// once it exceeds CompactionThreshold and more than half the buffer, per
// spec.md §4.3.
func (s *Set[T]) CompactIfNeeded() {
	if s.head > CompactionThreshold && s.head*2 > len(s.data) {
		n := copy(s.data, s.data[s.head:])
		s.data = s.data[:n]
		s.head = 0
	}
}

// Clear drops all elements, used on a chromosome switch (spec.md §4.4).
func (s *Set[T]) Clear() {
	s.data = s.data[:0]
	s.head = 0
}

// MaxActive returns the high-water mark of Len() observed since creation
// (or the last Clear — Clear does not reset the statistic, matching
// original_source's ActiveSet::max_active persisting across clear()).
func (s *Set[T]) MaxActive() int {
	return s.maxActive
}
