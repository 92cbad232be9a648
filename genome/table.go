// Package genome implements the Genome Table (C6) and Chromosome Sort
// Comparator (C7) described in spec.md §4.6/§4.7.
package genome

import (
	"bufio"
	"io"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"github.com/grailbio/bedsweep/bed"
)

// Table is an ordered chrom -> size map: enumeration order is insertion
// order (spec.md §3 "Genome table"). Immutable once constructed.
type Table struct {
	order []string
	sizes map[string]uint64
}

// ChromSize returns the size of chrom and whether it is present.
func (t *Table) ChromSize(chrom string) (uint64, bool) {
	size, ok := t.sizes[chrom]
	return size, ok
}

// Chromosomes returns chromosome names in insertion (genome-file) order.
func (t *Table) Chromosomes() []string {
	return t.order
}

// Len returns the number of chromosomes in the table.
func (t *Table) Len() int {
	return len(t.order)
}

// Load reads a two-column (chrom, size) tab-separated stream (spec.md §6
// "Genome file") into a Table. Grounded on original_source/src/genome.rs's
// loader and interval/bedunion.go's tokenizing discipline.
func Load(r io.Reader) (*Table, error) {
	t := &Table{sizes: make(map[string]uint64)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if bed.ShouldSkip(line) {
			continue
		}
		chrom, size, ok := parseGenomeLine(line)
		if !ok {
			return nil, errors.Errorf("genome.Load: malformed line %d", lineNo)
		}
		if _, dup := t.sizes[chrom]; dup {
			return nil, errors.Errorf("genome.Load: duplicate chromosome %q at line %d", chrom, lineNo)
		}
		t.sizes[chrom] = size
		t.order = append(t.order, chrom)
	}
	if err := sc.Err(); err != nil {
		return nil, bed.NewIOError("reading genome file", err)
	}
	return t, nil
}

func parseGenomeLine(line []byte) (chrom string, size uint64, ok bool) {
	tab := indexByte(line, '\t')
	if tab == -1 {
		return "", 0, false
	}
	chromBytes := line[:tab]
	sizeBytes := line[tab+1:]
	// Trailing CR tolerance (spec.md §6).
	for len(sizeBytes) > 0 && (sizeBytes[len(sizeBytes)-1] == '\r' || sizeBytes[len(sizeBytes)-1] == '\n') {
		sizeBytes = sizeBytes[:len(sizeBytes)-1]
	}
	var n uint64
	if len(sizeBytes) == 0 {
		return "", 0, false
	}
	for _, c := range sizeBytes {
		d := c - '0'
		if d > 9 {
			return "", 0, false
		}
		n = n*10 + uint64(d)
	}
	return string(chromBytes), n, true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// NewFromSAMHeader builds a Table directly from a BAM/SAM header's
// reference list, in header order. This is the supplemented feature
// SPEC_FULL.md's DOMAIN STACK section describes: it lets genomecov and
// complement be pointed at an aligned-read file's header instead of a
// separate genome file, the way interval.NewBEDOpts.SAMHeader lets
// BEDUnion look up by reference ID.
func NewFromSAMHeader(h *sam.Header) *Table {
	t := &Table{sizes: make(map[string]uint64, len(h.Refs()))}
	for _, ref := range h.Refs() {
		name := ref.Name()
		if _, dup := t.sizes[name]; dup {
			continue
		}
		t.sizes[name] = uint64(ref.Len())
		t.order = append(t.order, name)
	}
	return t
}
