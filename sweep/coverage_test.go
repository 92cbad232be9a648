package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runCoverage(t *testing.T, aIn, bIn string, cfg CoverageConfig) string {
	t.Helper()
	aSc := bed.NewScanner(strings.NewReader(aIn))
	bSc := bed.NewScanner(strings.NewReader(bIn))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Coverage(aSc, bSc, w, cfg))
	return out.String()
}

func TestCoverageBasic(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t110\t130\nchr1\t150\t160\n"
	got := runCoverage(t, a, b, CoverageConfig{})
	require.Equal(t, "chr1\t100\t200\t2\t30\t100\t0.3000000\n", got)
}

func TestCoverageBasicNoOverlap(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t300\t400\n"
	got := runCoverage(t, a, b, CoverageConfig{})
	require.Equal(t, "chr1\t100\t200\t0\t0\t100\t0.0000000\n", got)
}

func TestCoverageMean(t *testing.T) {
	a := "chr1\t0\t10\n"
	b := "chr1\t0\t5\nchr1\t0\t5\n"
	got := runCoverage(t, a, b, CoverageConfig{Mean: true})
	// depth 2 over [0,5), depth 0 over [5,10): total=10, mean=10/10=1.0
	require.Equal(t, "chr1\t0\t10\t1.0000000\n", got)
}

func TestCoveragePerBase(t *testing.T) {
	a := "chr1\t0\t3\n"
	b := "chr1\t1\t2\n"
	got := runCoverage(t, a, b, CoverageConfig{PerBase: true})
	require.Equal(t, "chr1\t0\t3\t1\t0\nchr1\t0\t3\t2\t1\nchr1\t0\t3\t3\t0\n", got)
}

func TestCoverageHistogram(t *testing.T) {
	a := "chr1\t0\t4\n"
	b := "chr1\t0\t2\n"
	got := runCoverage(t, a, b, CoverageConfig{Histogram: true})
	require.Equal(t, "chr1\t0\t4\t0\t2\t4\t0.5000000\nchr1\t0\t4\t1\t2\t4\t0.5000000\n", got)
}

func TestCoverageZeroLengthInterval(t *testing.T) {
	a := "chr1\t100\t100\n"
	b := "chr1\t50\t200\n"
	got := runCoverage(t, a, b, CoverageConfig{})
	require.Equal(t, "chr1\t100\t100\t0\t0\t0\t0.0000000\n", got)
}
