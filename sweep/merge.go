package sweep

import (
	"github.com/grailbio/bedsweep/bed"
)

// Merge implements spec.md §4.5.3: a single-stream state machine that
// coalesces intervals on the same chromosome separated by at most
// distance bp into one merged record, using O(1) memory (no active set is
// needed since input order already guarantees adjacency). Grounded on
// original_source/src/commands/streaming_merge.rs.
func Merge(aSc *bed.Scanner, w *bed.Writer, cfg MergeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		have       bool
		curChrom   string
		curStart   uint64
		curEnd     uint64
		curStrand  byte
		curCount   int64
	)

	flush := func() error {
		if !have {
			return nil
		}
		return writeMergedRecord(w, curChrom, curStart, curEnd, curStrand, curCount, cfg)
	}

	for aSc.Scan() {
		line := aSc.Bytes()
		chrom, start, end, restOffset, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue
		}
		strand := bed.Strand(line, restOffset)
		chromStr := string(chrom)

		if have && chromStr == curChrom && mergeable(curEnd, start, cfg.Distance) && strandOK(curStrand, strand, cfg.StrandSpecific) {
			if end > curEnd {
				curEnd = end
			}
			curCount++
			continue
		}

		if err := flush(); err != nil {
			return err
		}
		have = true
		curChrom = chromStr
		curStart = start
		curEnd = end
		curStrand = strand
		curCount = 1
	}
	if err := aSc.Err(); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	return w.Flush()
}

// mergeable reports whether a new interval starting at start should join
// the run ending at curEnd, i.e. the gap between them is <= distance
// (distance=0 means only touching/overlapping intervals merge).
func mergeable(curEnd, start uint64, distance int64) bool {
	if start <= curEnd {
		return true
	}
	gap := start - curEnd
	return int64(gap) <= distance
}

// strandOK reports whether strand may extend the current run. When
// strand_specific is off, strand is ignored entirely.
func strandOK(curStrand, strand byte, strandSpecific bool) bool {
	if !strandSpecific {
		return true
	}
	return curStrand == strand
}

func writeMergedRecord(w *bed.Writer, chrom string, start, end uint64, strand byte, count int64, cfg MergeConfig) error {
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
	if cfg.StrandSpecific && strand != 0 {
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteRaw([]byte{strand}); err != nil {
			return err
		}
	}
	if cfg.Count {
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteInt(count); err != nil {
			return err
		}
	}
	return w.WriteNewline()
}
