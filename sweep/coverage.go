package sweep

import (
	"sort"

	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/grailbio/bedsweep/activeset"
	"github.com/grailbio/bedsweep/bed"
)

// Coverage implements spec.md §4.5.5: for each A interval, report depth
// statistics (basic overlap/bases-covered/fraction, per_base, histogram,
// or mean) against the overlapping B intervals, using one active set per
// chromosome (O(k) memory). Grounded on
// original_source/src/commands/streaming_coverage.rs.
func Coverage(aSc, bSc *bed.Scanner, w *bed.Writer, cfg CoverageConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode := cfg.Mode()

	b, err := newBStream(bSc)
	if err != nil {
		return err
	}

	active := activeset.NewWithCapacity[activeB](1024)
	curChrom := ""
	events := make([]depthEvent, 0, 2048)

	for aSc.Scan() {
		line := aSc.Bytes()
		chrom, aStart, aEnd, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		aLen := aEnd - aStart

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

		if aLen == 0 {
			if err := writeZeroCoverage(w, line, aLen, mode); err != nil {
				return err
			}
			continue
		}

		expireActive(active, aStart)

		for !b.eof && b.pending.chrom == curChrom && b.pending.start < aEnd {
			active.Push(activeB{start: uint32(b.pending.start), end: uint32(b.pending.end)})
			if err := b.advance(); err != nil {
				return err
			}
		}
		warnPathological(active.Len(), "coverage")

		slice := active.AsSlice()
		switch mode {
		case CoveragePerBase:
			if err := writePerBaseCoverage(w, line, aStart, aEnd, slice, &events); err != nil {
				return err
			}
		case CoverageHistogram:
			if err := writeHistogramCoverage(w, line, aStart, aEnd, aLen, slice, &events); err != nil {
				return err
			}
		case CoverageMean:
			if err := writeMeanCoverage(w, line, aStart, aEnd, aLen, slice, &events); err != nil {
				return err
			}
		default:
			numOverlaps, basesCovered := computeCoverageInline(slice, aStart, aEnd)
			if err := writeBasicCoverage(w, line, numOverlaps, basesCovered, aLen); err != nil {
				return err
			}
		}
	}
	if err := aSc.Err(); err != nil {
		return err
	}
	return w.Flush()
}

// computeCoverageInline returns the overlap count and the number of bases
// of A covered by the union of overlapping B intervals.
func computeCoverageInline(active []activeB, aStart, aEnd uint64) (numOverlaps int, basesCovered uint64) {
	var unionStart, unionEnd uint64
	inUnion := false

	for _, b := range active {
		bStart, bEnd := uint64(b.start), uint64(b.end)
		if bEnd <= aStart || bStart >= aEnd {
			continue
		}
		numOverlaps++
		clipStart, clipEnd := bed.Max(bStart, aStart), bed.Min(bEnd, aEnd)
		switch {
		case !inUnion:
			unionStart, unionEnd = clipStart, clipEnd
			inUnion = true
		case clipStart > unionEnd:
			basesCovered += unionEnd - unionStart
			unionStart, unionEnd = clipStart, clipEnd
		default:
			if clipEnd > unionEnd {
				unionEnd = clipEnd
			}
		}
	}
	if inUnion {
		basesCovered += unionEnd - unionStart
	}
	return numOverlaps, basesCovered
}

func writeBasicCoverage(w *bed.Writer, line []byte, numOverlaps int, basesCovered, aLen uint64) error {
	var fraction float64
	if aLen > 0 {
		fraction = float64(basesCovered) / float64(aLen)
	}
	if err := w.WriteRaw(line); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteInt(int64(numOverlaps)); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(basesCovered); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteUint(aLen); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteFloatFixed7(fraction); err != nil {
		return err
	}
	return w.WriteNewline()
}

func writeZeroCoverage(w *bed.Writer, line []byte, aLen uint64, mode CoverageMode) error {
	switch mode {
	case CoveragePerBase:
		return nil // a_len == 0 means no positions to emit
	case CoverageHistogram:
		if err := w.WriteRaw(line); err != nil {
			return err
		}
		if err := w.WriteRaw([]byte("\t0\t")); err != nil {
			return err
		}
		if err := w.WriteUint(aLen); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(aLen); err != nil {
			return err
		}
		return w.WriteRaw([]byte("\t1.0000000\n"))
	case CoverageMean:
		if err := w.WriteRaw(line); err != nil {
			return err
		}
		return w.WriteRaw([]byte("\t0.0000000\n"))
	default:
		if err := w.WriteRaw(line); err != nil {
			return err
		}
		if err := w.WriteRaw([]byte("\t0\t0\t")); err != nil {
			return err
		}
		if err := w.WriteUint(aLen); err != nil {
			return err
		}
		return w.WriteRaw([]byte("\t0.0000000\n"))
	}
}

// depthEvent is a +1/-1 depth-change event at a clipped coordinate, used by
// mean, histogram, and per-base modes to integrate depth across A's span.
type depthEvent struct {
	pos   uint64
	delta int32
}

func depthEvents(active []activeB, aStart, aEnd uint64, events *[]depthEvent) {
	*events = (*events)[:0]
	for _, b := range active {
		bStart, bEnd := uint64(b.start), uint64(b.end)
		if bEnd <= aStart || bStart >= aEnd {
			continue
		}
		clipStart, clipEnd := bed.Max(bStart, aStart), bed.Min(bEnd, aEnd)
		*events = append(*events, depthEvent{clipStart, 1}, depthEvent{clipEnd, -1})
	}
	sort.Slice(*events, func(i, j int) bool {
		if (*events)[i].pos != (*events)[j].pos {
			return (*events)[i].pos < (*events)[j].pos
		}
		return (*events)[i].delta < (*events)[j].delta
	})
}

func writeMeanCoverage(w *bed.Writer, line []byte, aStart, aEnd, aLen uint64, active []activeB, events *[]depthEvent) error {
	depthEvents(active, aStart, aEnd, events)
	var depth int32
	var prevPos uint64 = aStart
	var totalDepth uint64
	for _, e := range *events {
		if e.pos > prevPos {
			totalDepth += uint64(depth) * (e.pos - prevPos)
		}
		depth += e.delta
		prevPos = e.pos
	}
	var mean float64
	if aLen > 0 {
		mean = float64(totalDepth) / float64(aLen)
	}
	if err := w.WriteRaw(line); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteFloatFixed7(mean); err != nil {
		return err
	}
	return w.WriteNewline()
}

func writeHistogramCoverage(w *bed.Writer, line []byte, aStart, aEnd, aLen uint64, active []activeB, events *[]depthEvent) error {
	depthEvents(active, aStart, aEnd, events)
	all := append([]depthEvent{{aStart, 0}, {aEnd, 0}}, (*events)...)
	sort.Slice(all, func(i, j int) bool {
		if all[i].pos != all[j].pos {
			return all[i].pos < all[j].pos
		}
		return all[i].delta < all[j].delta
	})

	histogram := make(map[int32]uint64)
	var depths []int32
	var depth int32
	prevPos := aStart
	for _, e := range all {
		if e.pos > prevPos && e.pos <= aEnd && prevPos >= aStart {
			if _, seen := histogram[depth]; !seen {
				depths = append(depths, depth)
			}
			histogram[depth] += e.pos - prevPos
		}
		depth += e.delta
		prevPos = e.pos
	}
	sort.Slice(depths, func(i, j int) bool { return depths[i] < depths[j] })

	for _, d := range depths {
		count := histogram[d]
		var fraction float64
		if aLen > 0 {
			fraction = float64(count) / float64(aLen)
		}
		if err := w.WriteRaw(line); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteInt(int64(d)); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(count); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(aLen); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteFloatFixed7(fraction); err != nil {
			return err
		}
		if err := w.WriteNewline(); err != nil {
			return err
		}
	}
	return nil
}

func writePerBaseCoverage(w *bed.Writer, line []byte, aStart, aEnd uint64, active []activeB, events *[]depthEvent) error {
	depthEvents(active, aStart, aEnd, events)
	var depth int32
	idx := 0
	for pos := aStart; pos < aEnd; pos++ {
		for idx < len(*events) && (*events)[idx].pos <= pos {
			depth += (*events)[idx].delta
			idx++
		}
		oneBased := pos - aStart + 1
		if err := w.WriteRaw(line); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteUint(oneBased); err != nil {
			return err
		}
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteInt(int64(depth)); err != nil {
			return err
		}
		if err := w.WriteNewline(); err != nil {
			return err
		}
	}
	return nil
}
