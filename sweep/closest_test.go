package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runClosest(t *testing.T, aIn, bIn string, cfg ClosestConfig) string {
	t.Helper()
	aSc := bed.NewScanner(strings.NewReader(aIn))
	bSc := bed.NewScanner(strings.NewReader(bIn))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Closest(aSc, bSc, w, cfg))
	return out.String()
}

func TestClosestOverlapWins(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t150\t160\nchr1\t500\t600\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t100\t200\tchr1\t150\t160\n", got)
}

func TestClosestUpstreamOnly(t *testing.T) {
	a := "chr1\t500\t600\n"
	b := "chr1\t100\t200\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t500\t600\tchr1\t100\t200\n", got)
}

func TestClosestDownstreamOnly(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t500\t600\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t100\t200\tchr1\t500\t600\n", got)
}

func TestClosestNoBOnChromosome(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr2\t100\t200\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t100\t200\t.\t-1\t-1\n", got)
}

func TestClosestTieUpstreamDownstream(t *testing.T) {
	a := "chr1\t200\t210\n"
	b := "chr1\t100\t195\nchr1\t215\t300\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t200\t210\tchr1\t100\t195\nchr1\t200\t210\tchr1\t215\t300\n", got)
}

func TestClosestIgnoreUpstream(t *testing.T) {
	a := "chr1\t200\t210\n"
	b := "chr1\t100\t195\nchr1\t220\t300\n"
	cfg := DefaultClosestConfig()
	cfg.IgnoreUpstream = true
	got := runClosest(t, a, b, cfg)
	require.Equal(t, "chr1\t200\t210\tchr1\t220\t300\n", got)
}

func TestClosestTiedDownstreamCandidates(t *testing.T) {
	a := "chr1\t100\t200\n"
	b := "chr1\t250\t260\nchr1\t250\t270\n"
	got := runClosest(t, a, b, DefaultClosestConfig())
	require.Equal(t, "chr1\t100\t200\tchr1\t250\t260\nchr1\t100\t200\tchr1\t250\t270\n", got)
}
