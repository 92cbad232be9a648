package sweep

import (
	"github.com/grailbio/bedsweep/activeset"
	"github.com/grailbio/bedsweep/bed"
)

// Closest implements spec.md §4.5.4: for each A interval, find the closest
// B interval(s) by bedtools distance (overlap = 0; upstream = A.start -
// B.end + 1; downstream = B.start - A.end + 1), preferring overlaps, then
// the smaller of the upstream/downstream distance, with ties broken by
// report_all_ties. Grounded closely on
// original_source/src/commands/streaming_closest.rs, including its
// right_candidates/left_candidates/deferred_upstream bookkeeping.
func Closest(aSc, bSc *bed.Scanner, w *bed.Writer, cfg ClosestConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	b, err := newBStream(bSc)
	if err != nil {
		return err
	}

	active := activeset.NewWithCapacity[activeB](1024)
	var leftCandidates []activeB
	var leftEnd uint64
	var rightCandidates []activeB
	curChrom := ""

	for aSc.Scan() {
		line := aSc.Bytes()
		chrom, aStart, aEnd, _, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		chromStr := string(chrom)

		if chromStr != curChrom {
			curChrom = chromStr
			active.Clear()
			leftCandidates = leftCandidates[:0]
			leftEnd = 0
			rightCandidates = rightCandidates[:0]
			if err := b.skipToChrom(curChrom); err != nil {
				return err
			}
		}

		// Re-evaluate right_candidates from the previous A: if they're no
		// longer strictly downstream of this A, reclassify into active
		// (overlap) or deferred-upstream (ended before this A starts).
		var deferredUpstream []activeB
		if len(rightCandidates) > 0 && uint64(rightCandidates[0].start) < aEnd {
			for _, rc := range rightCandidates {
				if uint64(rc.end) <= aStart {
					deferredUpstream = append(deferredUpstream, rc)
				} else {
					active.Push(rc)
				}
			}
			rightCandidates = rightCandidates[:0]
		}

		// Expire active B that has fallen behind A.start into left_candidates.
		active.AdvanceWhile(func(ab activeB) bool {
			if uint64(ab.end) > aStart {
				return false
			}
			if uint64(ab.end) > leftEnd {
				leftCandidates = leftCandidates[:0]
				leftCandidates = append(leftCandidates, ab)
				leftEnd = uint64(ab.end)
			} else if uint64(ab.end) == leftEnd {
				leftCandidates = append(leftCandidates, ab)
			}
			return true
		})
		active.CompactIfNeeded()

		// Deferred-upstream candidates have a higher start than anything
		// already drained from active (B is sorted by start), so appending
		// after the expire loop preserves B-file order.
		for _, rc := range deferredUpstream {
			if uint64(rc.end) > leftEnd {
				leftCandidates = leftCandidates[:0]
				leftCandidates = append(leftCandidates, rc)
				leftEnd = uint64(rc.end)
			} else if uint64(rc.end) == leftEnd {
				leftCandidates = append(leftCandidates, rc)
			}
		}

		// Refill: pull B forward until it passes A.end, routing each
		// record to active, left_candidates, or right_candidates exactly
		// as the single-pass refill loop does.
		for !b.eof && len(rightCandidates) == 0 {
			if b.pending.chrom != curChrom {
				if b.seen[curChrom] {
					break
				}
				if err := b.advance(); err != nil {
					return err
				}
				continue
			}
			if b.pending.start >= aEnd {
				rightStart := b.pending.start
				for !b.eof && b.pending.chrom == curChrom && b.pending.start == rightStart {
					rightCandidates = append(rightCandidates, activeB{
						start:      uint32(b.pending.start),
						end:        uint32(b.pending.end),
						restOffset: b.pending.restOffset,
						line:       b.pending.line,
					})
					if err := b.advance(); err != nil {
						return err
					}
				}
				break
			}
			if b.pending.end <= aStart {
				if b.pending.end > leftEnd {
					leftCandidates = leftCandidates[:0]
					leftCandidates = append(leftCandidates, activeB{
						start: uint32(b.pending.start), end: uint32(b.pending.end),
						restOffset: b.pending.restOffset, line: b.pending.line,
					})
					leftEnd = b.pending.end
				} else if b.pending.end == leftEnd {
					leftCandidates = append(leftCandidates, activeB{
						start: uint32(b.pending.start), end: uint32(b.pending.end),
						restOffset: b.pending.restOffset, line: b.pending.line,
					})
				}
			} else {
				active.Push(activeB{
					start: uint32(b.pending.start), end: uint32(b.pending.end),
					restOffset: b.pending.restOffset, line: b.pending.line,
				})
			}
			if err := b.advance(); err != nil {
				return err
			}
		}
		warnPathological(active.Len(), "closest")

		if err := closestEmit(w, line, active, leftCandidates, leftEnd, rightCandidates, aStart, aEnd, cfg); err != nil {
			return err
		}
	}
	if err := aSc.Err(); err != nil {
		return err
	}
	return w.Flush()
}

func closestEmit(w *bed.Writer, aLine []byte, active *activeset.Set[activeB], leftCandidates []activeB, leftEnd uint64, rightCandidates []activeB, aStart, aEnd uint64, cfg ClosestConfig) error {
	var overlaps []activeB
	if !cfg.IgnoreOverlaps {
		for _, ab := range active.AsSlice() {
			if uint64(ab.start) < aEnd && uint64(ab.end) > aStart {
				overlaps = append(overlaps, ab)
			}
		}
	}
	if len(overlaps) > 0 {
		return writeClosestMatches(w, aLine, overlaps, cfg.ReportAllTies)
	}

	var activeDownstream []activeB
	var activeDownstreamStart uint64 = ^uint64(0)
	if !cfg.IgnoreDownstream {
		for _, ab := range active.AsSlice() {
			if uint64(ab.start) >= aEnd {
				if uint64(ab.start) < activeDownstreamStart {
					activeDownstream = activeDownstream[:0]
					activeDownstream = append(activeDownstream, ab)
					activeDownstreamStart = uint64(ab.start)
				} else if uint64(ab.start) == activeDownstreamStart {
					activeDownstream = append(activeDownstream, ab)
				}
			}
		}
	}

	const noDist = ^uint64(0)
	minDist := noDist
	upstreamDist := noDist
	if !cfg.IgnoreUpstream && len(leftCandidates) > 0 {
		upstreamDist = aStart - leftEnd + 1
		minDist = upstreamDist
	}

	downstreamDist := noDist
	useActiveDownstream := false
	useRightCandidates := false
	if !cfg.IgnoreDownstream {
		if len(activeDownstream) > 0 {
			downstreamDist = activeDownstreamStart - aEnd + 1
			useActiveDownstream = true
		}
		if len(rightCandidates) > 0 {
			rightDist := uint64(rightCandidates[0].start) - aEnd + 1
			if rightDist < downstreamDist {
				downstreamDist = rightDist
				useActiveDownstream = false
				useRightCandidates = true
			} else if rightDist == downstreamDist {
				useRightCandidates = true
			}
		}
		if downstreamDist < minDist {
			minDist = downstreamDist
		}
	}

	switch {
	case minDist == noDist:
		return writeNoClosest(w, aLine)
	case upstreamDist == downstreamDist && upstreamDist == minDist:
		if cfg.ReportAllTies {
			if err := writeClosestMatches(w, aLine, leftCandidates, true); err != nil {
				return err
			}
			if useActiveDownstream {
				if err := writeClosestMatches(w, aLine, activeDownstream, true); err != nil {
					return err
				}
			}
			if useRightCandidates {
				return writeClosestMatches(w, aLine, rightCandidates, true)
			}
			return nil
		}
		return writeClosestMatches(w, aLine, leftCandidates, false)
	case upstreamDist == minDist:
		return writeClosestMatches(w, aLine, leftCandidates, cfg.ReportAllTies)
	case downstreamDist == minDist:
		if cfg.ReportAllTies {
			if useActiveDownstream {
				if err := writeClosestMatches(w, aLine, activeDownstream, true); err != nil {
					return err
				}
			}
			if useRightCandidates {
				return writeClosestMatches(w, aLine, rightCandidates, true)
			}
			return nil
		}
		if useActiveDownstream && len(activeDownstream) > 0 {
			return writeClosestMatches(w, aLine, activeDownstream[:1], false)
		}
		if useRightCandidates && len(rightCandidates) > 0 {
			return writeClosestMatches(w, aLine, rightCandidates[:1], false)
		}
		return nil
	default:
		return writeNoClosest(w, aLine)
	}
}

func writeClosestMatches(w *bed.Writer, aLine []byte, matches []activeB, all bool) error {
	if len(matches) == 0 {
		return nil
	}
	if !all {
		return w.WritePair(aLine, matches[0].line)
	}
	for _, m := range matches {
		if err := w.WritePair(aLine, m.line); err != nil {
			return err
		}
	}
	return nil
}

// writeNoClosest writes A followed by the sentinel "." "-1" "-1" columns
// bedtools uses when no B interval qualifies (spec.md §4.5.4).
func writeNoClosest(w *bed.Writer, aLine []byte) error {
	if err := w.WriteRaw(aLine); err != nil {
		return err
	}
	return w.WriteRaw([]byte("\t.\t-1\t-1\n"))
}
