package sweep

import (
	gunsafe "github.com/grailbio/base/unsafe"

	"github.com/grailbio/bedsweep/bed"
)

// bRecord is one parsed record from a B stream, with its line copied into
// owned storage (the scanner's buffer is reused on the next Scan call).
type bRecord struct {
	chrom      string
	start, end uint64
	restOffset int
	line       []byte
}

// bStream is the Chromosome Coordinator's (C4) view of the B side of a
// two-stream operation: it tracks B's current record, which chromosomes
// have been observed so far, and refills on demand. Grounded on spec.md
// §4.4 and the B-refill loop common to every streaming_*.rs command.
type bStream struct {
	sc      *bed.Scanner
	pending *bRecord
	eof     bool
	seen    map[string]bool
}

func newBStream(sc *bed.Scanner) (*bStream, error) {
	s := &bStream{sc: sc, seen: make(map[string]bool)}
	if err := s.advance(); err != nil {
		return nil, err
	}
	return s, nil
}

// advance reads the next B record into s.pending, or sets s.eof.
func (s *bStream) advance() error {
	for s.sc.Scan() {
		line := s.sc.Bytes()
		chrom, start, end, restOffset, ok := bed.ParseBED3WithRest(line)
		if !ok {
			continue // malformed line: skipped silently (spec.md §7 error 2)
		}
		owned := make([]byte, len(line))
		copy(owned, line)
		s.pending = &bRecord{
			chrom:      gunsafe.BytesToString(owned[:len(chrom)]),
			start:      start,
			end:        end,
			restOffset: restOffset,
			line:       owned,
		}
		s.seen[s.pending.chrom] = true
		return nil
	}
	if err := s.sc.Err(); err != nil {
		return err
	}
	s.pending = nil
	s.eof = true
	return nil
}

// skipToChrom advances B past any chromosome that isn't target and hasn't
// been seen before, i.e. "read the next B record, skipping B's current
// chromosome entirely" (spec.md §4.4, "On A chromosome switch").
func (s *bStream) skipToChrom(target string) error {
	for !s.eof && s.pending != nil && s.pending.chrom != target && !s.seen[target] {
		if err := s.advance(); err != nil {
			return err
		}
	}
	return nil
}
