package sweep

import (
	"sync"

	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/grailbio/base/log"

	"github.com/grailbio/bedsweep/activeset"
	"github.com/grailbio/bedsweep/bed"
)

// activeB is the active-set element shared by intersect, subtract, closest,
// window, and coverage: coordinates plus the owned line bytes, which the
// drivers that re-emit B verbatim (intersect, closest, window) rely on;
// coverage fills in only the coordinates (spec.md §9 "Active-set storage").
type activeB struct {
	start, end uint32
	restOffset int
	line       []byte
}

var intersectWarnOnce sync.Once

func warnPathological(set int, op string) {
	if set > PathologicalActiveSetThreshold {
		intersectWarnOnce.Do(func() {
			log.Error.Printf("%s: active set exceeded %d elements; input may be pathological (many overlapping intervals)", op, PathologicalActiveSetThreshold)
		})
	}
}

// Intersect implements spec.md §4.5.1: overlaps between A and B in one of
// seven output shapes. Grounded on
// original_source/src/commands/streaming_intersect.rs.
func Intersect(aSc, bSc *bed.Scanner, w *bed.Writer, cfg IntersectConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode := cfg.Mode()
	fastPath := !cfg.HasFractionFilter() && !cfg.Reciprocal && !cfg.SameStrand && !cfg.OppositeStrand

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
		// Compare without allocating (same trick interval/bedunion.go's
		// scanBEDUnion uses); only allocate curChrom's replacement on the
		// rarer branch where the chromosome actually changed.
		if gunsafe.BytesToString(chrom) != curChrom {
			curChrom = string(chrom)
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
		warnPathological(active.Len(), "intersect")

		aStrand := bed.Strand(line, restOffset)
		if err := intersectEmit(w, line, chrom, aStart, aEnd, restOffset, aStrand, active, cfg, mode, fastPath); err != nil {
			return err
		}
	}
	if err := aSc.Err(); err != nil {
		return err
	}
	return w.Flush()
}

func expireActive(active *activeset.Set[activeB], pos uint64) {
	active.AdvanceWhile(func(b activeB) bool { return uint64(b.end) <= pos })
	active.CompactIfNeeded()
}

func intersectEmit(w *bed.Writer, aLine, aChrom []byte, aStart, aEnd uint64, aRestOffset int, aStrand byte, active *activeset.Set[activeB], cfg IntersectConfig, mode IntersectMode, fastPath bool) error {
	aIv := bed.Interval{Start: aStart, End: aEnd}
	count := 0
	anyMatch := false
	strandFiltered := cfg.SameStrand || cfg.OppositeStrand

	for _, b := range active.AsSlice() {
		bIv := bed.Interval{Start: uint64(b.start), End: uint64(b.end)}
		if !aIv.Overlaps(bIv) {
			continue
		}
		if !fastPath {
			if !passesIntersectFilters(aIv, bIv, cfg) {
				continue
			}
			if strandFiltered {
				bStrand := bed.Strand(b.line, b.restOffset)
				if !strandMatches(aStrand, bStrand, cfg.SameStrand) {
					continue
				}
			}
		}
		anyMatch = true
		count++

		switch mode {
		case IntersectCount, IntersectUnique, IntersectNoOverlap:
			continue // these modes emit once, after the loop
		case IntersectDefault:
			ovStart, ovEnd := bed.Max(aStart, bIv.Start), bed.Min(aEnd, bIv.End)
			if err := w.WriteBED3WithRest(aChrom, ovStart, ovEnd, aLine, aRestOffset); err != nil {
				return err
			}
		case IntersectWriteA:
			if err := w.WriteLine(aLine); err != nil {
				return err
			}
		case IntersectWriteB:
			ovStart, ovEnd := bed.Max(aStart, bIv.Start), bed.Min(aEnd, bIv.End)
			if err := w.WriteBED3(aChrom, ovStart, ovEnd); err != nil {
				return err
			}
			if aRestOffset < len(aLine) {
				if err := w.WriteTab(); err != nil {
					return err
				}
				if err := w.WriteRaw(aLine[aRestOffset:]); err != nil {
					return err
				}
			}
			if err := w.WriteTab(); err != nil {
				return err
			}
			if err := w.WriteLine(b.line); err != nil {
				return err
			}
		case IntersectWriteAB:
			if err := w.WritePair(aLine, b.line); err != nil {
				return err
			}
		}
	}

	switch mode {
	case IntersectCount:
		if err := w.WriteRaw(aLine); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteInt(int64(count)); err != nil {
			return err
		}
		return w.WriteNewline()
	case IntersectUnique:
		if anyMatch {
			return w.WriteLine(aLine)
		}
	case IntersectNoOverlap:
		if !anyMatch {
			return w.WriteLine(aLine)
		}
	}
	return nil
}

// strandMatches implements spec.md §4.5.1's strand rule: intervals without
// a strand are treated as unconstrained, so only a concrete '+'/'-' pair on
// both sides is ever rejected.
func strandMatches(a, b byte, wantSame bool) bool {
	if a == 0 || b == 0 || a == '.' || b == '.' {
		return true
	}
	same := a == b
	if wantSame {
		return same
	}
	return !same
}

// passesIntersectFilters applies the f_A/f_B/reciprocal filters of
// spec.md §4.5.1 (strand is handled separately by strandMatches since it
// needs the B line's bytes, not just its coordinates).
func passesIntersectFilters(a, b bed.Interval, cfg IntersectConfig) bool {
	overlapLen := a.OverlapLen(b)
	if overlapLen == 0 {
		return false
	}
	needA := cfg.FractionA > 0
	needB := cfg.FractionB > 0
	if cfg.Reciprocal {
		// "when exactly one of f_A, f_B is set, require the threshold on
		// both fractions; when both are set, require each respectively."
		threshold := cfg.FractionA
		if threshold == 0 {
			threshold = cfg.FractionB
		}
		fA, fB := threshold, threshold
		if needA && needB {
			fA, fB = cfg.FractionA, cfg.FractionB
		}
		if float64(overlapLen) < fA*float64(a.Len()) {
			return false
		}
		if float64(overlapLen) < fB*float64(b.Len()) {
			return false
		}
		return true
	}
	if needA && float64(overlapLen) < cfg.FractionA*float64(a.Len()) {
		return false
	}
	if needB && float64(overlapLen) < cfg.FractionB*float64(b.Len()) {
		return false
	}
	return true
}
