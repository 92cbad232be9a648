package bed

// Kind enumerates the error taxonomy of spec.md §7.
type Kind int

const (
	// KindIO covers read/write failures on an input or output stream.
	KindIO Kind = iota
	// KindFormat covers malformed lines; at the streaming layer these are
	// skipped rather than raised (see ShouldSkip/ParseBED3), so KindFormat
	// is reserved for the strict validators outside the core.
	KindFormat
	// KindSortViolation covers a chromosome reappearing non-contiguously or
	// start decreasing within a chromosome.
	KindSortViolation
	// KindUnknownChromosome covers a data line referencing a chromosome
	// absent from a supplied genome table.
	KindUnknownChromosome
	// KindInvalidConfig covers mutually exclusive output modes, negative
	// distance/window, or a fraction outside (0, 1].
	KindInvalidConfig
)

// Error is the structured error type surfaced by every sweep operation's
// top-level entry point (spec.md §7 "Propagation"). Modeled on
// markduplicates' small sentinel-error family; Err holds the underlying
// cause unchanged, so errors.Is/errors.As reach it through Unwrap.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewIOError wraps err as a KindIO Error with added context.
func NewIOError(context string, err error) *Error {
	return &Error{Kind: KindIO, Msg: context, Err: err}
}

// NewSortViolation reports a sort-order violation, including the offending
// record index and the expected-vs-actual chromosome/position described in
// spec.md §7 error 3.
func NewSortViolation(msg string) *Error {
	return &Error{Kind: KindSortViolation, Msg: msg}
}

// NewUnknownChromosome reports a data line referencing a chromosome absent
// from the genome table (spec.md §7 error 4).
func NewUnknownChromosome(chrom string) *Error {
	return &Error{Kind: KindUnknownChromosome, Msg: "unknown chromosome: " + chrom}
}

// NewInvalidConfig reports a configuration error detected before any I/O
// (spec.md §7 error 5).
func NewInvalidConfig(msg string) *Error {
	return &Error{Kind: KindInvalidConfig, Msg: msg}
}
