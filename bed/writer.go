package bed

import (
	"bufio"
	"io"
	"math"
	"strconv"
)

// Buffer size policy (spec.md §4.2): ~2MiB by default, ~256KiB in low
// memory mode.
const (
	DefaultBufferSize  = 2 * 1024 * 1024
	LowMemBufferSize   = 256 * 1024
)

// Writer is a buffered byte-level BED emitter. It never allocates per
// write: integers are formatted with strconv.AppendInt/AppendUint into a
// reused buffer held in the Writer, matching the non-allocating itoa/ryu discipline of
// original_source/src/streaming/output.rs (see DESIGN.md for why Go's
// strconv.Append family is the idiomatic equivalent rather than a gap).
type Writer struct {
	w       *bufio.Writer
	numBuf  [32]byte
}

// NewWriter wraps dst with the default buffer size.
func NewWriter(dst io.Writer) *Writer {
	return NewWriterSize(dst, DefaultBufferSize)
}

// NewWriterSize wraps dst with an explicit buffer size.
func NewWriterSize(dst io.Writer, size int) *Writer {
	return &Writer{w: bufio.NewWriterSize(dst, size)}
}

// WriteRaw writes bytes verbatim.
func (w *Writer) WriteRaw(b []byte) error {
	_, err := w.w.Write(b)
	return err
}

// WriteTab writes a single tab byte.
func (w *Writer) WriteTab() error {
	return w.w.WriteByte('\t')
}

// WriteNewline writes a single LF byte.
func (w *Writer) WriteNewline() error {
	return w.w.WriteByte('\n')
}

// WriteBED3 writes "chrom\tstart\tend" with no trailing newline.
func (w *Writer) WriteBED3(chrom []byte, start, end uint64) error {
	if err := w.WriteRaw(chrom); err != nil {
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
	return w.WriteUint(end)
}

// WriteBED3Line writes a BED3 record followed by a newline.
func (w *Writer) WriteBED3Line(chrom []byte, start, end uint64) error {
	if err := w.WriteBED3(chrom, start, end); err != nil {
		return err
	}
	return w.WriteNewline()
}

// WriteInt writes a signed integer with no allocation.
func (w *Writer) WriteInt(n int64) error {
	b := strconv.AppendInt(w.numBuf[:0], n, 10)
	_, err := w.w.Write(b)
	return err
}

// WriteUint writes an unsigned integer with no allocation.
func (w *Writer) WriteUint(n uint64) error {
	b := strconv.AppendUint(w.numBuf[:0], n, 10)
	_, err := w.w.Write(b)
	return err
}

// WriteFloatFixed7 writes f with exactly seven digits after the decimal
// point, round-half-to-even on binary64 (spec.md §4.2/§6; see DESIGN.md's
// Open Questions entry for why binary64 was chosen over binary32).
func (w *Writer) WriteFloatFixed7(f float64) error {
	b := strconv.AppendFloat(w.numBuf[:0], f, 'f', 7, 64)
	_, err := w.w.Write(b)
	return err
}

// WriteFloatSignificant6 writes f with six significant figures, switching
// to scientific notation when the base-10 exponent falls outside [-4, 5],
// and stripping trailing fractional zeros (spec.md §4.2/§6, jaccard's
// ratio format). Grounded on original_source/src/commands/jaccard.rs's
// format_g, extended with the scientific-notation branch spec.md requires.
func (w *Writer) WriteFloatSignificant6(f float64) error {
	s := FormatSignificant6(f)
	_, err := w.w.WriteString(s)
	return err
}

// FormatSignificant6 implements the six-significant-figure / scientific /
// trailing-zero-stripped formatting rule as a standalone function so tests
// and callers that don't hold a Writer (e.g. the jaccard header row) can
// use it directly.
func FormatSignificant6(f float64) string {
	if f == 0 {
		return "0"
	}
	neg := f < 0
	af := math.Abs(f)
	exp := int(math.Floor(math.Log10(af)))
	if exp < -4 || exp > 5 {
		// Scientific notation: strconv's 'e' format already gives
		// round-half-to-even and consistent exponent digits.
		s := strconv.FormatFloat(f, 'e', 5, 64)
		return stripSignificantTrailingZeros(s, true)
	}
	prec := 5 - exp
	if prec < 0 {
		prec = 0
	}
	s := strconv.FormatFloat(af, 'f', prec, 64)
	s = stripSignificantTrailingZeros(s, false)
	if neg && s != "0" {
		s = "-" + s
	}
	return s
}

// stripSignificantTrailingZeros trims trailing fractional zeros (and a
// trailing decimal point) from s. When scientific is true, s has the form
// "d.dddddde±dd" and only the mantissa is trimmed.
func stripSignificantTrailingZeros(s string, scientific bool) string {
	mantissa, suffix := s, ""
	if scientific {
		for i := 0; i < len(s); i++ {
			if s[i] == 'e' {
				mantissa, suffix = s[:i], s[i:]
				break
			}
		}
	}
	if idx := indexByte(mantissa, '.'); idx != -1 {
		end := len(mantissa)
		for end > idx+1 && mantissa[end-1] == '0' {
			end--
		}
		if end == idx+1 {
			end = idx
		}
		mantissa = mantissa[:end]
	}
	if mantissa == "" || mantissa == "-" {
		mantissa = "0"
	}
	return mantissa + suffix
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// WriteBED3WithRest writes "chrom\tstart\tend" followed by the original
// line's extra columns from restOffset onward (the preserved tail, per
// ParseBED3WithRest's doc: restOffset already points past the separating
// tab, so it's re-inserted here), then a newline.
func (w *Writer) WriteBED3WithRest(chrom []byte, start, end uint64, originalLine []byte, restOffset int) error {
	if err := w.WriteBED3(chrom, start, end); err != nil {
		return err
	}
	if restOffset < len(originalLine) {
		if err := w.WriteTab(); err != nil {
			return err
		}
		if err := w.WriteRaw(originalLine[restOffset:]); err != nil {
			return err
		}
	}
	return w.WriteNewline()
}

// WriteLine writes a full line verbatim followed by a newline.
func (w *Writer) WriteLine(line []byte) error {
	if err := w.WriteRaw(line); err != nil {
		return err
	}
	return w.WriteNewline()
}

// WritePair writes aLine + TAB + bLine + newline, the "A paired with B"
// shape shared by closest and window's default output mode.
func (w *Writer) WritePair(aLine, bLine []byte) error {
	if err := w.WriteRaw(aLine); err != nil {
		return err
	}
	if err := w.WriteTab(); err != nil {
		return err
	}
	if err := w.WriteRaw(bLine); err != nil {
		return err
	}
	return w.WriteNewline()
}

// Flush flushes the underlying buffer, returning any I/O error encountered.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
