package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runIntersect(t *testing.T, aIn, bIn string, cfg IntersectConfig) string {
	t.Helper()
	aSc := bed.NewScanner(strings.NewReader(aIn))
	bSc := bed.NewScanner(strings.NewReader(bIn))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Intersect(aSc, bSc, w, cfg))
	return out.String()
}

func TestIntersectDefault(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t150\t160\nchr1\t190\t250\n"
	got := runIntersect(t, a, b, IntersectConfig{})
	require.Equal(t, "chr1\t150\t160\nchr1\t190\t200\n", got)
}

func TestIntersectNoOverlapAtAll(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t300\t400\n"
	got := runIntersect(t, a, b, IntersectConfig{})
	require.Equal(t, "", got)
}

func TestIntersectCount(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t110\t120\nchr1\t150\t160\nchr1\t300\t400\n"
	got := runIntersect(t, a, b, IntersectConfig{Count: true})
	require.Equal(t, "chr1\t100\t200\t2\n", got)
}

func TestIntersectUnique(t *testing.T) {
	a := "chr1\t100\t200\nchr1\t500\t600\n"
	b := "chr1\t110\t120\n"
	got := runIntersect(t, a, b, IntersectConfig{Unique: true})
	require.Equal(t, "chr1\t100\t200\n", got)
}

func TestIntersectNoOverlapMode(t *testing.T) {
	a := "chr1\t100\t200\nchr1\t500\t600\n"
	b := "chr1\t110\t120\n"
	got := runIntersect(t, a, b, IntersectConfig{NoOverlap: true})
	require.Equal(t, "chr1\t500\t600\n", got)
}

func TestIntersectWriteA(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t110\t120\nchr1\t150\t160\n"
	got := runIntersect(t, a, b, IntersectConfig{WriteA: true})
	require.Equal(t, "chr1\t100\t200\nchr1\t100\t200\n", got)
}

func TestIntersectWriteAB(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t110\t120\n"
	got := runIntersect(t, a, b, IntersectConfig{WriteA: true, WriteB: true})
	require.Equal(t, "chr1\t100\t200\tchr1\t110\t120\n", got)
}

func TestIntersectFractionFilter(t *testing.T) {
	a := "chr1\t0\t100\n" // len 100
	b := "chr1\t0\t60\nchr1\t60\t100\n"
	got := runIntersect(t, a, b, IntersectConfig{FractionA: 0.5})
	// only the first B interval gives a 60bp overlap (>= 50% of A's 100bp)
	require.Equal(t, "chr1\t0\t60\n", got)
}

func TestIntersectSameStrand(t *testing.T) {
	a := "chr1\t0\t100\tname\t0\t+\n"
	b := "chr1\t10\t20\tname\t0\t-\nchr1\t30\t40\tname\t0\t+\n"
	got := runIntersect(t, a, b, IntersectConfig{SameStrand: true})
	require.Equal(t, "chr1\t30\t40\tname\t0\t+\n", got)
}

func TestIntersectOppositeStrandUnconstrainedWhenMissing(t *testing.T) {
	a := "chr1\t0\t100\n" // no strand column
	b := "chr1\t10\t20\tname\t0\t-\n"
	got := runIntersect(t, a, b, IntersectConfig{OppositeStrand: true})
	require.Equal(t, "chr1\t10\t20\n", got)
}

func TestStrandMatches(t *testing.T) {
	require.True(t, strandMatches(0, '+', true))
	require.True(t, strandMatches('+', 0, false))
	require.True(t, strandMatches('.', '-', true))
	require.True(t, strandMatches('+', '+', true))
	require.False(t, strandMatches('+', '-', true))
	require.True(t, strandMatches('+', '-', false))
	require.False(t, strandMatches('+', '+', false))
}
