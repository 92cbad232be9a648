package sweep

import (
	"sort"

	"github.com/grailbio/bedsweep/bed"
)

// Jaccard implements spec.md §4.5.10: the Jaccard similarity coefficient
// between two interval sets, computed with a single O(k)-memory merge-sweep
// over both streams rather than materializing either file. Grounded on
// original_source/src/commands/jaccard.rs's jaccard_streaming, translating
// its "next event among {end_A, end_B, start_A, start_B}" selection (ends
// before starts, A before B at ties) into the active-set idiom used
// elsewhere in this package.
//
// cfg.SameStrand/FractionA/FractionB/Reciprocal are accepted and validated
// but, matching the original, are not applied to the core statistic: the
// upstream implementation never wires them into jaccard_streaming either.
func Jaccard(aSc, bSc *bed.Scanner, w *bed.Writer, cfg JaccardConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	a := newJaccardStream(aSc)
	b := newJaccardStream(bSc)
	if err := a.advance(); err != nil {
		return err
	}
	if err := b.advance(); err != nil {
		return err
	}

	var activeA, activeB []uint64 // sorted ascending end positions
	var totalIntersection, totalUnion, totalIntersections uint64
	var curChrom string
	var prevPos uint64
	var inOverlap bool

	for {
		startA, haveStartA := a.startOnChrom(curChrom)
		startB, haveStartB := b.startOnChrom(curChrom)

		if len(activeA) == 0 && len(activeB) == 0 && !haveStartA && !haveStartB {
			if inOverlap {
				totalIntersections++
				inOverlap = false
			}
			next, ok := nextChrom(a, b)
			if !ok {
				break
			}
			curChrom = next
			prevPos = 0
			continue
		}

		pos, isEnd, isA, ok := nextJaccardEvent(activeA, activeB, startA, haveStartA, startB, haveStartB)
		if !ok {
			break
		}

		if pos > prevPos {
			depthA, depthB := len(activeA), len(activeB)
			if inOverlap && !(depthA > 0 && depthB > 0) {
				totalIntersections++
				inOverlap = false
			}
			span := pos - prevPos
			if depthA > 0 && depthB > 0 {
				totalIntersection += span
			}
			if depthA > 0 || depthB > 0 {
				totalUnion += span
			}
		}

		if isEnd {
			if isA {
				activeA = activeA[1:]
			} else {
				activeB = activeB[1:]
			}
		} else if isA {
			end := a.pending.end
			activeA = insertSortedEnd(activeA, end)
			if err := a.advance(); err != nil {
				return err
			}
		} else {
			end := b.pending.end
			activeB = insertSortedEnd(activeB, end)
			if err := b.advance(); err != nil {
				return err
			}
		}

		if len(activeA) > 0 && len(activeB) > 0 {
			inOverlap = true
		}
		prevPos = pos
	}

	if inOverlap {
		totalIntersections++
	}

	var jaccard float64
	if totalUnion > 0 {
		jaccard = float64(totalIntersection) / float64(totalUnion)
	}

	if err := w.WriteRaw([]byte("intersection\tunion\tjaccard\tn_intersections\n")); err != nil {
		return err
	}
	if err := w.WriteUint(totalIntersection); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(totalUnion); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteFloatSignificant6(jaccard); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(totalIntersections); err != nil {
		return err
	}
	if err := w.WriteNewline(); err != nil {
		return err
	}
	return w.Flush()
}

// jaccardStream holds the single pending record read from a scanner, or
// none if exhausted.
type jaccardStream struct {
	sc      *bed.Scanner
	pending struct {
		chrom string
		start uint64
		end   uint64
	}
	eof bool
}

func newJaccardStream(sc *bed.Scanner) *jaccardStream {
	return &jaccardStream{sc: sc}
}

func (s *jaccardStream) advance() error {
	for s.sc.Scan() {
		line := s.sc.Bytes()
		chrom, start, end, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		s.pending.chrom = string(chrom)
		s.pending.start = start
		s.pending.end = end
		return nil
	}
	s.eof = true
	return s.sc.Err()
}

func (s *jaccardStream) startOnChrom(chrom string) (uint64, bool) {
	if s.eof || s.pending.chrom != chrom {
		return 0, false
	}
	return s.pending.start, true
}

func nextChrom(a, b *jaccardStream) (string, bool) {
	switch {
	case a.eof && b.eof:
		return "", false
	case a.eof:
		return b.pending.chrom, true
	case b.eof:
		return a.pending.chrom, true
	case a.pending.chrom <= b.pending.chrom:
		return a.pending.chrom, true
	default:
		return b.pending.chrom, true
	}
}

// insertSortedEnd inserts end into the ascending-sorted slice.
func insertSortedEnd(ends []uint64, end uint64) []uint64 {
	i := sort.Search(len(ends), func(i int) bool { return ends[i] >= end })
	ends = append(ends, 0)
	copy(ends[i+1:], ends[i:])
	ends[i] = end
	return ends
}

// nextJaccardEvent picks the next sweep position among the minimum active
// end of each side and the pending start of each side. Ends sort before
// starts at the same position; A sorts before B at ties within each kind.
func nextJaccardEvent(activeA, activeB []uint64, startA uint64, haveStartA bool, startB uint64, haveStartB bool) (pos uint64, isEnd, isA, ok bool) {
	found := false
	pos = 0

	consider := func(p uint64, end, fromA bool) {
		if !found {
			pos, isEnd, isA, found = p, end, fromA, true
			return
		}
		if p < pos {
			pos, isEnd, isA = p, end, fromA
			return
		}
		if p == pos {
			switch {
			case end && !isEnd:
				isEnd, isA = true, fromA
			case end == isEnd && fromA && !isA:
				isA = true
			}
		}
	}

	if len(activeA) > 0 {
		consider(activeA[0], true, true)
	}
	if len(activeB) > 0 {
		consider(activeB[0], true, false)
	}
	if haveStartA {
		consider(startA, false, true)
	}
	if haveStartB {
		consider(startB, false, false)
	}
	return pos, isEnd, isA, found
}
