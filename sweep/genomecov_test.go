package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
	"github.com/grailbio/bedsweep/genome"
)

func makeTestGenome(t *testing.T) *genome.Table {
	t.Helper()
	g, err := genome.Load(strings.NewReader("chr1\t1000\nchr2\t500\n"))
	require.NoError(t, err)
	return g
}

func runGenomecov(t *testing.T, in string, cfg GenomecovConfig) string {
	t.Helper()
	sc := bed.NewScanner(strings.NewReader(in))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Genomecov(sc, makeTestGenome(t), w, cfg))
	return out.String()
}

func TestGenomecovBedGraph(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t150\t250\n"
	got := runGenomecov(t, in, GenomecovConfig{Mode: GenomecovBedGraph})
	require.Equal(t, "chr1\t100\t150\t1\nchr1\t150\t200\t2\nchr1\t200\t250\t1\n", got)
}

func TestGenomecovBedGraphAll(t *testing.T) {
	in := "chr1\t100\t200\n"
	got := runGenomecov(t, in, GenomecovConfig{Mode: GenomecovBedGraphAll})
	require.Contains(t, got, "chr1\t0\t100\t0\n")
	require.Contains(t, got, "chr1\t100\t200\t1\n")
	require.Contains(t, got, "chr1\t200\t1000\t0\n")
	require.Contains(t, got, "chr2\t0\t500\t0\n")
}

func TestGenomecovHistogram(t *testing.T) {
	in := "chr1\t100\t200\n"
	got := runGenomecov(t, in, GenomecovConfig{Mode: GenomecovHistogram})
	require.Contains(t, got, "chr1\t0\t900\t1000\t0.9\n")
	require.Contains(t, got, "chr1\t1\t100\t1000\t0.1\n")
	require.Contains(t, got, "genome\t")
}

func TestGenomecovEmptyInput(t *testing.T) {
	got := runGenomecov(t, "", GenomecovConfig{Mode: GenomecovBedGraphAll})
	require.Contains(t, got, "chr1\t0\t1000\t0\n")
	require.Contains(t, got, "chr2\t0\t500\t0\n")
}

func TestGenomecovScale(t *testing.T) {
	in := "chr1\t0\t10\n"
	got := runGenomecov(t, in, GenomecovConfig{Mode: GenomecovBedGraph, Scale: 2.0})
	require.Equal(t, "chr1\t0\t10\t2\n", got)
}
