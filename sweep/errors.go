// Package sweep implements the Chromosome Coordinator (C4) and the ten
// sweep-line operation drivers (C5) of spec.md §4.4/§4.5.
package sweep

import "github.com/grailbio/bedsweep/bed"

// Error re-exports bed.Error's taxonomy so callers of this package don't
// need to import bed directly just to switch on error kind.
type Error = bed.Error

const (
	KindIO                = bed.KindIO
	KindFormat            = bed.KindFormat
	KindSortViolation     = bed.KindSortViolation
	KindUnknownChromosome = bed.KindUnknownChromosome
	KindInvalidConfig     = bed.KindInvalidConfig
)

var (
	NewIOError             = bed.NewIOError
	NewSortViolation        = bed.NewSortViolation
	NewUnknownChromosome    = bed.NewUnknownChromosome
	NewInvalidConfig        = bed.NewInvalidConfig
)

// PathologicalActiveSetThreshold is the default active-set-size threshold
// above which a one-shot diagnostic is logged (spec.md §7 error 6).
const PathologicalActiveSetThreshold = 100000
