package sweep

// Each operation's configuration is a flat record with a Validate method
// that the operation's driver calls before any I/O (spec.md §9, §7 error
// 5). Grounded on original_source's per-command *Command structs
// (JaccardCommand, StreamingClosestCommand, StreamingGenomecovCommand).

// IntersectMode enumerates intersect's seven effective output modes,
// resolved once before the hot loop per spec.md §4.5.1/§9.
type IntersectMode int

const (
	IntersectDefault IntersectMode = iota
	IntersectWriteA
	IntersectWriteB
	IntersectWriteAB
	IntersectCount
	IntersectUnique
	IntersectNoOverlap
)

// IntersectConfig configures the intersect operation.
type IntersectConfig struct {
	WriteA, WriteB     bool
	Count              bool
	Unique             bool
	NoOverlap          bool
	FractionA          float64 // 0 means unset
	FractionB          float64
	Reciprocal         bool
	SameStrand         bool
	OppositeStrand     bool
}

// Mode resolves the output mode implied by the flag combination.
func (c IntersectConfig) Mode() IntersectMode {
	switch {
	case c.Count:
		return IntersectCount
	case c.Unique:
		return IntersectUnique
	case c.NoOverlap:
		return IntersectNoOverlap
	case c.WriteA && c.WriteB:
		return IntersectWriteAB
	case c.WriteB:
		return IntersectWriteB
	case c.WriteA:
		return IntersectWriteA
	default:
		return IntersectDefault
	}
}

// HasFractionFilter reports whether any overlap-fraction filter is active,
// letting the driver take a fast path that skips the filter check entirely
// (spec.md §4.5.1 "Complexity").
func (c IntersectConfig) HasFractionFilter() bool {
	return c.FractionA > 0 || c.FractionB > 0
}

// Validate checks the mutual-exclusion and range rules of spec.md §7
// error 5.
func (c IntersectConfig) Validate() error {
	modes := 0
	for _, set := range []bool{c.Count, c.Unique, c.NoOverlap} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return NewInvalidConfig("intersect: count, unique, and no_overlap are mutually exclusive")
	}
	if c.SameStrand && c.OppositeStrand {
		return NewInvalidConfig("intersect: same_strand and opposite_strand are mutually exclusive")
	}
	if err := validateFraction("f_A", c.FractionA); err != nil {
		return err
	}
	if err := validateFraction("f_B", c.FractionB); err != nil {
		return err
	}
	return nil
}

func validateFraction(name string, f float64) error {
	if f == 0 {
		return nil
	}
	if f <= 0 || f > 1 {
		return NewInvalidConfig(name + " must be in (0, 1]")
	}
	return nil
}

// SubtractConfig configures the subtract operation.
type SubtractConfig struct {
	RemoveEntire bool
	Fraction     float64
	Reciprocal   bool
}

func (c SubtractConfig) Validate() error {
	return validateFraction("fraction", c.Fraction)
}

// MergeConfig configures the merge operation.
type MergeConfig struct {
	Distance       int64
	StrandSpecific bool
	Count          bool
}

func (c MergeConfig) Validate() error {
	if c.Distance < 0 {
		return NewInvalidConfig("merge: distance must be >= 0")
	}
	return nil
}

// ClosestConfig configures the closest operation.
type ClosestConfig struct {
	IgnoreOverlaps   bool
	IgnoreUpstream   bool
	IgnoreDownstream bool
	ReportAllTies    bool
}

// DefaultClosestConfig returns the spec's default (report_all_ties=true).
func DefaultClosestConfig() ClosestConfig {
	return ClosestConfig{ReportAllTies: true}
}

func (c ClosestConfig) Validate() error { return nil }

// CoverageMode enumerates coverage's output modes (mutual priority order
// per spec.md §4.5.5: per_base, histogram, mean).
type CoverageMode int

const (
	CoverageBasic CoverageMode = iota
	CoveragePerBase
	CoverageHistogram
	CoverageMean
)

// CoverageConfig configures the coverage operation.
type CoverageConfig struct {
	PerBase   bool
	Histogram bool
	Mean      bool
}

func (c CoverageConfig) Mode() CoverageMode {
	switch {
	case c.PerBase:
		return CoveragePerBase
	case c.Histogram:
		return CoverageHistogram
	case c.Mean:
		return CoverageMean
	default:
		return CoverageBasic
	}
}

func (c CoverageConfig) Validate() error { return nil }

// WindowConfig configures the window operation.
type WindowConfig struct {
	Window    int64
	Left      int64 // 0 means "use Window"
	Right     int64 // 0 means "use Window"
	Count     bool
	NoOverlap bool
}

// Bounds resolves the effective (left, right) expansion.
func (c WindowConfig) Bounds() (left, right int64) {
	left, right = c.Left, c.Right
	if left == 0 {
		left = c.Window
	}
	if right == 0 {
		right = c.Window
	}
	return left, right
}

func (c WindowConfig) Validate() error {
	if c.Window < 0 || c.Left < 0 || c.Right < 0 {
		return NewInvalidConfig("window: window/left/right must be >= 0")
	}
	if c.Count && c.NoOverlap {
		return NewInvalidConfig("window: count and no_overlap are mutually exclusive")
	}
	return nil
}

// GenomecovMode enumerates genomecov's four output shapes (spec.md
// §4.5.7).
type GenomecovMode int

const (
	GenomecovHistogram GenomecovMode = iota
	GenomecovPerBase
	GenomecovBedGraph
	GenomecovBedGraphAll
)

// GenomecovConfig configures the genomecov operation.
type GenomecovConfig struct {
	Mode  GenomecovMode
	Scale float64
}

func (c GenomecovConfig) Validate() error {
	if c.Scale < 0 {
		return NewInvalidConfig("genomecov: scale must be >= 0")
	}
	return nil
}

func (c GenomecovConfig) scaleOrDefault() float64 {
	if c.Scale == 0 {
		return 1.0
	}
	return c.Scale
}

// ComplementConfig configures the complement operation.
type ComplementConfig struct {
	// ErrorOnUnknownChromosome escalates the default "drop" policy of
	// spec.md §7 error 4 to a hard error.
	ErrorOnUnknownChromosome bool
	// AssumeGenomeOrder selects the fast single-pass variant (spec.md
	// §4.5.8) instead of the accumulate-then-emit variant.
	AssumeGenomeOrder bool
}

func (c ComplementConfig) Validate() error { return nil }

// MultiinterConfig configures the multiinter operation.
type MultiinterConfig struct {
	// Cluster restricts output to regions where all N streams are active
	// (spec.md §4.5.9 "Cluster mode").
	Cluster bool
}

func (c MultiinterConfig) Validate() error { return nil }

// JaccardConfig configures the jaccard operation.
type JaccardConfig struct {
	SameStrand bool
	FractionA  float64
	FractionB  float64
	Reciprocal bool
}

func (c JaccardConfig) Validate() error {
	if err := validateFraction("f_A", c.FractionA); err != nil {
		return err
	}
	return validateFraction("f_B", c.FractionB)
}
