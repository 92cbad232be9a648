package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runSubtract(t *testing.T, aIn, bIn string, cfg SubtractConfig) string {
	t.Helper()
	aSc := bed.NewScanner(strings.NewReader(aIn))
	bSc := bed.NewScanner(strings.NewReader(bIn))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Subtract(aSc, bSc, w, cfg))
	return out.String()
}

func TestSubtractMiddleBite(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t140\t160\n"
	got := runSubtract(t, a, b, SubtractConfig{})
	require.Equal(t, "chr1\t100\t140\nchr1\t160\t200\n", got)
}

func TestSubtractNoOverlapPassesThrough(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t300\t400\n"
	got := runSubtract(t, a, b, SubtractConfig{})
	require.Equal(t, "chr1\t100\t200\n", got)
}

func TestSubtractFullyConsumed(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t50\t250\n"
	got := runSubtract(t, a, b, SubtractConfig{})
	require.Equal(t, "", got)
}

func TestSubtractMultipleBites(t *testing.T) {
	a := "chr1\t0\t100\n"
	b := "chr1\t10\t20\nchr1\t30\t40\nchr1\t90\t100\n"
	got := runSubtract(t, a, b, SubtractConfig{})
	require.Equal(t, "chr1\t0\t10\nchr1\t20\t30\nchr1\t40\t90\n", got)
}

func TestSubtractRemoveEntire(t *testing.T) {
	a := "chr1\t100\t200\nchr1\t500\t600\n"
	b := "chr1\t150\t160\n"
	got := runSubtract(t, a, b, SubtractConfig{RemoveEntire: true})
	require.Equal(t, "chr1\t500\t600\n", got)
}

func TestSubtractFractionThresholdExcludesSmallOverlap(t *testing.T) {
	a := "chr1\t0\t100\n" // len 100
	b := "chr1\t0\t10\n"  // 10bp overlap, 10% of A
	got := runSubtract(t, a, b, SubtractConfig{Fraction: 0.5})
	require.Equal(t, "chr1\t0\t100\n", got)
}

func TestSubtractPreservesExtraColumns(t *testing.T) {
	a := "chr1\t100\t200\tgeneA\t0\t+\n"
	b := "chr1\t140\t160\n"
	got := runSubtract(t, a, b, SubtractConfig{})
	require.Equal(t, "chr1\t100\t140\tgeneA\t0\t+\nchr1\t160\t200\tgeneA\t0\t+\n", got)
}
