package sweep

import (
	"github.com/grailbio/bedsweep/activeset"
	"github.com/grailbio/bedsweep/bed"
)

// Subtract implements spec.md §4.5.2: for each A interval, remove the
// portions covered by overlapping B intervals and emit what remains (zero,
// one, or many fragments), or drop A entirely under remove_entire. Grounded
// on original_source/src/commands/streaming_subtract.rs and reuses
// intersect's bStream/active-set machinery.
func Subtract(aSc, bSc *bed.Scanner, w *bed.Writer, cfg SubtractConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b, err := newBStream(bSc)
	if err != nil {
		return err
	}

	active := activeset.NewWithCapacity[activeB](1024)
	curChrom := ""

	for aSc.Scan() {
		line := aSc.Bytes()
		chrom, aStart, aEnd, restOffset, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		chromStr := string(chrom)

		if chromStr != curChrom {
			curChrom = chromStr
			active.Clear()
			if err := b.skipToChrom(curChrom); err != nil {
				return err
			}
		}

		expireActive(active, aStart)

		for !b.eof && b.pending.chrom == curChrom && b.pending.start < aEnd {
			active.Push(activeB{
				start:      uint32(b.pending.start),
				end:        uint32(b.pending.end),
				restOffset: b.pending.restOffset,
				line:       b.pending.line,
			})
			if err := b.advance(); err != nil {
				return err
			}
		}
		warnPathological(active.Len(), "subtract")

		if err := subtractEmit(w, line, chrom, aStart, aEnd, restOffset, active, cfg); err != nil {
			return err
		}
	}
	if err := aSc.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// subtractEmit computes the fragments of [aStart, aEnd) not covered by any
// qualifying overlapping B interval and writes each as its own record
// preserving A's extra columns.
func subtractEmit(w *bed.Writer, aLine, aChrom []byte, aStart, aEnd uint64, aRestOffset int, active *activeset.Set[activeB], cfg SubtractConfig) error {
	aIv := bed.Interval{Start: aStart, End: aEnd}

	anyHit := false
	cursor := aStart
	var fragments [][2]uint64

	for _, b := range active.AsSlice() {
		bIv := bed.Interval{Start: uint64(b.start), End: uint64(b.end)}
		if !aIv.Overlaps(bIv) {
			continue
		}
		if !passesSubtractFilter(aIv, bIv, cfg) {
			continue
		}
		anyHit = true

		clipStart, clipEnd := bed.Max(bIv.Start, aStart), bed.Min(bIv.End, aEnd)
		if clipStart > cursor {
			fragments = append(fragments, [2]uint64{cursor, clipStart})
		}
		if clipEnd > cursor {
			cursor = clipEnd
		}
	}

	if cfg.RemoveEntire {
		if anyHit {
			return nil
		}
		return w.WriteLine(aLine)
	}

	if !anyHit {
		return w.WriteLine(aLine)
	}

	if cursor < aEnd {
		fragments = append(fragments, [2]uint64{cursor, aEnd})
	}
	for _, f := range fragments {
		if f[0] >= f[1] {
			continue
		}
		if err := w.WriteBED3WithRest(aChrom, f[0], f[1], aLine, aRestOffset); err != nil {
			return err
		}
	}
	return nil
}

// passesSubtractFilter implements spec.md §4.5.2's fraction/reciprocal
// threshold: a B interval only counts toward subtraction once it overlaps
// A by at least the configured fraction of A's length (and, under
// reciprocal, also of B's length). With no fraction configured, any nonzero
// overlap counts.
func passesSubtractFilter(a, b bed.Interval, cfg SubtractConfig) bool {
	overlapLen := a.OverlapLen(b)
	if overlapLen == 0 {
		return false
	}
	if cfg.Fraction == 0 {
		return true
	}
	if float64(overlapLen) < cfg.Fraction*float64(a.Len()) {
		return false
	}
	if cfg.Reciprocal && float64(overlapLen) < cfg.Fraction*float64(b.Len()) {
		return false
	}
	return true
}
