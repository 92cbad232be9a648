package bed

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Scanner reads BED lines from an underlying source one at a time, reusing
// its internal buffer across calls (no per-line allocation beyond what
// bufio.Scanner needs to grow the buffer for unusually long lines).
// Grounded on interval/bedunion.go's NewBEDUnionFromPath: open via
// github.com/grailbio/base/file, detect gzip via
// github.com/grailbio/base/fileio, decompress via klauspost/compress/gzip.
type Scanner struct {
	sc     *bufio.Scanner
	closer func() error
	line   []byte
}

// NewScanner wraps an io.Reader directly (no path resolution, no gzip
// sniffing); use OpenScanner to go from a path.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &Scanner{sc: sc}
}

// OpenScanner opens path (local or remote, per github.com/grailbio/base/file's
// scheme handling) and returns a Scanner over its contents, transparently
// gunzipping when fileio.DetermineType reports Gzip.
func OpenScanner(ctx context.Context, path string) (*Scanner, error) {
	if ctx == nil {
		ctx = vcontext.Background()
	}
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, NewIOError("opening "+path, err)
	}
	var r io.Reader = f.Reader(ctx)
	closer := func() error { return f.Close(ctx) }
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = closer()
			return nil, NewIOError("opening gzip reader for "+path, err)
		}
		r = gz
		inner := closer
		closer = func() error {
			gzErr := gz.Close()
			innerErr := inner()
			if gzErr != nil {
				return gzErr
			}
			return innerErr
		}
	}
	s := NewScanner(r)
	s.closer = closer
	return s, nil
}

// Scan advances to the next non-skippable (§4.1 ShouldSkip) line. It does
// not check that the line parses as BED; callers skip lines that fail to
// parse. It returns false at EOF or on a read error (check Err).
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		line := s.sc.Bytes()
		if ShouldSkip(line) {
			continue
		}
		s.line = line
		return true
	}
	return false
}

// Bytes returns the current line's bytes. The slice is only valid until the
// next call to Scan; callers that need to retain it (e.g. to push into an
// active set) must copy it.
func (s *Scanner) Bytes() []byte { return s.line }

// Err returns the first non-EOF error encountered by Scan.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return NewIOError("reading BED input", err)
	}
	return nil
}

// Close releases any underlying file handle opened by OpenScanner. It is a
// no-op for a Scanner created with NewScanner directly.
func (s *Scanner) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
