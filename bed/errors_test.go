package bed

import (
	"errors"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestNewIOError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIOError("writing output", cause)
	expect.EQ(t, KindIO, err.Kind)
	expect.True(t, errors.Is(err, cause))
}

func TestNewSortViolation(t *testing.T) {
	err := NewSortViolation("chr1 start 100 follows chr1 start 200")
	expect.EQ(t, KindSortViolation, err.Kind)
	expect.EQ(t, "chr1 start 100 follows chr1 start 200", err.Error())
}

func TestNewUnknownChromosome(t *testing.T) {
	err := NewUnknownChromosome("chrZZ")
	expect.EQ(t, KindUnknownChromosome, err.Kind)
	expect.EQ(t, "unknown chromosome: chrZZ", err.Error())
}

func TestNewInvalidConfig(t *testing.T) {
	err := NewInvalidConfig("distance and window are mutually exclusive")
	expect.EQ(t, KindInvalidConfig, err.Kind)
	expect.EQ(t, "distance and window are mutually exclusive", err.Error())
}

func TestErrorKindFormat(t *testing.T) {
	// KindFormat is reserved for strict validators outside the streaming
	// core (see its doc comment); exercised directly here since no
	// constructor wraps it the way the other kinds have one.
	err := &Error{Kind: KindFormat, Msg: "expected 3 columns, got 2"}
	expect.EQ(t, KindFormat, err.Kind)
	expect.EQ(t, "expected 3 columns, got 2", err.Error())
}
