package sweep

import (
	"container/heap"
	"sort"
	"strconv"

	"github.com/grailbio/bedsweep/bed"
)

// Multiinter implements spec.md §4.5.9: k-way presence/count across n
// sorted streams, driven by a min-heap of (chrom, start, end, stream_id)
// entries. Grounded on
// original_source/src/commands/streaming_multiinter.rs's BinaryHeap-driven
// k-way merge, translated onto container/heap the way
// katalvlaran-lvlath/graph's Dijkstra implementation in the example pack
// uses heap.Interface for its priority queue.
func Multiinter(scanners []*bed.Scanner, w *bed.Writer, cfg MultiinterConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	n := len(scanners)
	if n == 0 {
		return w.Flush()
	}

	streams := make([]*multiinterStream, n)
	h := &multiinterHeap{}
	heap.Init(h)
	for i, sc := range scanners {
		streams[i] = &multiinterStream{sc: sc, idx: i}
		entry, ok, err := streams[i].next()
		if err != nil {
			return err
		}
		if ok {
			heap.Push(h, entry)
		}
	}

	type event struct {
		pos     uint64
		isStart bool
		idx     int
	}

	var curChrom string
	haveChrom := false
	var events []event

	process := func() error {
		if len(events) == 0 {
			return nil
		}
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].pos != events[j].pos {
				return events[i].pos < events[j].pos
			}
			// ends (isStart=false) before starts at the same position
			return !events[i].isStart && events[j].isStart
		})

		depths := make([]uint32, n)
		prevPos := events[0].pos
		hasCoverage := false

		for _, e := range events {
			if e.pos > prevPos && hasCoverage {
				if err := emitMultiinterRegion(w, curChrom, prevPos, e.pos, depths, cfg.Cluster); err != nil {
					return err
				}
			}
			if e.isStart {
				depths[e.idx]++
			} else if depths[e.idx] > 0 {
				depths[e.idx]--
			}
			hasCoverage = false
			for _, d := range depths {
				if d > 0 {
					hasCoverage = true
					break
				}
			}
			prevPos = e.pos
		}
		return nil
	}

	for h.Len() > 0 {
		entry := heap.Pop(h).(multiinterEntry)

		if haveChrom && entry.chrom != curChrom {
			if err := process(); err != nil {
				return err
			}
			events = events[:0]
		}
		curChrom = entry.chrom
		haveChrom = true

		events = append(events,
			event{pos: entry.start, isStart: true, idx: entry.idx},
			event{pos: entry.end, isStart: false, idx: entry.idx},
		)

		next, ok, err := streams[entry.idx].next()
		if err != nil {
			return err
		}
		if ok {
			heap.Push(h, next)
		}
	}
	if err := process(); err != nil {
		return err
	}
	return w.Flush()
}

type multiinterStream struct {
	sc  *bed.Scanner
	idx int
}

func (s *multiinterStream) next() (multiinterEntry, bool, error) {
	for s.sc.Scan() {
		line := s.sc.Bytes()
		chrom, start, end, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		// Must copy: this entry sits in the heap across arbitrarily many
		// later Scan() calls on every stream, so it cannot alias the
		// scanner's reused line buffer the way a same-iteration comparison
		// could (see interval/bedunion.go's own "must create a copy" case
		// for a persisted map key).
		return multiinterEntry{chrom: string(chrom), start: start, end: end, idx: s.idx}, true, nil
	}
	return multiinterEntry{}, false, s.sc.Err()
}

type multiinterEntry struct {
	chrom string
	start uint64
	end   uint64
	idx   int
}

// multiinterHeap is a min-heap ordered by (chrom, start, idx), so that
// entries with equal (chrom, start) interleave deterministically by
// ascending stream index.
type multiinterHeap []multiinterEntry

func (h multiinterHeap) Len() int { return len(h) }
func (h multiinterHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.chrom != b.chrom {
		return a.chrom < b.chrom
	}
	if a.start != b.start {
		return a.start < b.start
	}
	return a.idx < b.idx
}
func (h multiinterHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *multiinterHeap) Push(x any)   { *h = append(*h, x.(multiinterEntry)) }
func (h *multiinterHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func emitMultiinterRegion(w *bed.Writer, chrom string, start, end uint64, depths []uint32, cluster bool) error {
	count := 0
	for _, d := range depths {
		if d > 0 {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	if cluster && count != len(depths) {
		return nil
	}

	if err := w.WriteRaw([]byte(chrom)); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(start); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(end); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteInt(int64(count)); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}

	first := true
	for i, d := range depths {
		if d == 0 {
			continue
		}
		if !first {
			if err := w.WriteRaw([]byte(",")); err != nil {
				return err
			}
		}
		first = false
		if err := w.WriteRaw([]byte(strconv.Itoa(i + 1))); err != nil {
			return err
		}
	}

	for _, d := range depths {
		if err := w.WriteTab(); err != nil {
			return err
		}
		if d > 0 {
			if err := w.WriteRaw([]byte("1")); err != nil {
				return err
			}
		} else {
			if err := w.WriteRaw([]byte("0")); err != nil {
				return err
			}
		}
	}
	return w.WriteNewline()
}
