package bed

import "bytes"

// normalizeZeroLength is the process-wide compatibility flag described in
// spec.md §4.1/§9: when set, a parsed record with start == end is widened to
// a 1bp interval [start, start+1) instead of being left zero-length. It must
// be set once before parsing begins; the parser only ever does a single
// relaxed load against it.
var normalizeZeroLength bool

// SetNormalizeZeroLength enables or disables the start==end normalization
// flag. Callers must do this at startup, before any parsing happens; it is
// not safe to toggle mid-stream.
func SetNormalizeZeroLength(on bool) {
	normalizeZeroLength = on
}

// getTokens splits curLine into up to len(tokens) tab-delimited fields,
// writing sub-slices of curLine into tokens and returning how many were
// found. It never allocates. Modeled directly on interval/bedunion.go's
// getTokens: a hand loop beats bytes.Split here because bytes.Split
// allocates a []([]byte) per call, and the compiler won't eliminate that
// for a 3-token BED header.
func getTokens(tokens [][]byte, curLine []byte) int {
	pos := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		if pos >= lineLen {
			return tokenIdx
		}
		tab := bytes.IndexByte(curLine[pos:], '\t')
		if tab == -1 {
			tokens[tokenIdx] = trimTrailing(curLine[pos:])
			return tokenIdx + 1
		}
		tokens[tokenIdx] = curLine[pos : pos+tab]
		pos += tab + 1
	}
	return len(tokens)
}

// trimTrailing strips a trailing CR (and any trailing LF, though callers
// are expected to have already split on LF) from the final column of a
// line, per spec.md §6: "Record terminator is LF (CR before LF tolerated)."
func trimTrailing(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\r' || b[len(b)-1] == '\n') {
		b = b[:len(b)-1]
	}
	return b
}

// parseUint64Fast parses an ASCII decimal integer with no allocation,
// returning ok=false on any non-digit byte or empty input. Grounded on
// original_source/src/streaming/parsing.rs's parse_u64_fast.
func parseUint64Fast(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n uint64
	for _, c := range b {
		d := c - '0'
		if d > 9 {
			return 0, false
		}
		n = n*10 + uint64(d)
	}
	return n, true
}

// ParseBED3 parses the first three columns of a BED line. chrom is a
// sub-slice of line; it must be copied by the caller before line is reused
// (e.g. by the active set or a reused scanner buffer).
func ParseBED3(line []byte) (chrom []byte, start, end uint64, ok bool) {
	var tokens [3][]byte
	if n := getTokens(tokens[:], line); n < 3 {
		return nil, 0, 0, false
	}
	s, ok1 := parseUint64Fast(tokens[1])
	e, ok2 := parseUint64Fast(tokens[2])
	if !ok1 || !ok2 || e < s {
		return nil, 0, 0, false
	}
	if normalizeZeroLength && e == s {
		e = s + 1
	}
	return tokens[0], s, e, true
}

// ParseBED3WithRest parses the first three columns and additionally reports
// restOffset, the byte index in line of the first column after end (or
// len(line) if there is none). This lets callers preserve extra columns
// verbatim without materializing them, per spec.md §9 "Tail-column
// preservation".
func ParseBED3WithRest(line []byte) (chrom []byte, start, end uint64, restOffset int, ok bool) {
	tab1 := bytes.IndexByte(line, '\t')
	if tab1 == -1 {
		return nil, 0, 0, 0, false
	}
	chrom = line[:tab1]

	rest1 := line[tab1+1:]
	tab2 := bytes.IndexByte(rest1, '\t')
	if tab2 == -1 {
		return nil, 0, 0, 0, false
	}
	s, ok1 := parseUint64Fast(rest1[:tab2])
	if !ok1 {
		return nil, 0, 0, 0, false
	}

	rest2 := rest1[tab2+1:]
	endLen := bytes.IndexByte(rest2, '\t')
	restStart := tab1 + 1 + tab2 + 1
	var endField []byte
	if endLen == -1 {
		endField = trimTrailing(rest2)
		restOffset = len(line)
	} else {
		endField = rest2[:endLen]
		restOffset = restStart + endLen + 1
	}
	e, ok2 := parseUint64Fast(endField)
	if !ok2 || e < s {
		return nil, 0, 0, 0, false
	}
	if normalizeZeroLength && e == s {
		e = s + 1
	}
	return chrom, s, e, restOffset, true
}

// ExtraColumn returns the 0-indexed extra column (0 = BED col 4 / name,
// 1 = col 5 / score, 2 = col 6 / strand, ...) starting at restOffset, or
// nil if the line doesn't have that many columns. Grounded on spec.md §3's
// BED record column table; used through Strand by the strand-filtered
// operations (intersect, merge) without materializing the full column
// list (spec.md §9 "Tail-column preservation").
func ExtraColumn(line []byte, restOffset, index int) []byte {
	if restOffset >= len(line) {
		return nil
	}
	rest := trimTrailing(line[restOffset:])
	pos := 0
	for i := 0; i <= index; i++ {
		if pos > len(rest) {
			return nil
		}
		tab := bytes.IndexByte(rest[pos:], '\t')
		if tab == -1 {
			if i == index {
				return rest[pos:]
			}
			return nil
		}
		if i == index {
			return rest[pos : pos+tab]
		}
		pos += tab + 1
	}
	return nil
}

// Strand returns the strand byte ('+', '-', or '.') from column 6 of line,
// or 0 if the column is absent. Per spec.md §4.5.1, an interval without a
// strand column is treated as unconstrained by strand filters.
func Strand(line []byte, restOffset int) byte {
	col := ExtraColumn(line, restOffset, 2)
	if len(col) != 1 {
		return 0
	}
	switch col[0] {
	case '+', '-', '.':
		return col[0]
	}
	return 0
}

// ShouldSkip reports whether line is blank, a comment, or a track/browser
// directive and must be silently ignored by the streaming layer (spec.md
// §4.1, §7 error 2).
func ShouldSkip(line []byte) bool {
	line = trimTrailing(line)
	if len(line) == 0 {
		return true
	}
	switch line[0] {
	case '#':
		return true
	}
	return bytes.HasPrefix(line, []byte("track")) || bytes.HasPrefix(line, []byte("browser"))
}
