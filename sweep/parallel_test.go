package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func TestParallelMergeMatchesStreaming(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t150\t300\nchr2\t10\t20\nchr2\t15\t25\n"
	cfg := MergeConfig{}

	sc := bed.NewScanner(strings.NewReader(in))
	var streamed bytes.Buffer
	require.NoError(t, Merge(sc, bed.NewWriter(&streamed), cfg))

	psc := bed.NewScanner(strings.NewReader(in))
	var parallel bytes.Buffer
	require.NoError(t, ParallelMerge(psc, bed.NewWriter(&parallel), cfg, 4))

	require.Equal(t, streamed.String(), parallel.String())
}

func TestParallelGenomecovMatchesStreaming(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t150\t250\nchr2\t0\t50\n"
	cfg := GenomecovConfig{Mode: GenomecovBedGraphAll}

	sc := bed.NewScanner(strings.NewReader(in))
	var streamed bytes.Buffer
	require.NoError(t, Genomecov(sc, makeTestGenome(t), bed.NewWriter(&streamed), cfg))

	psc := bed.NewScanner(strings.NewReader(in))
	var parallel bytes.Buffer
	require.NoError(t, ParallelGenomecov(psc, makeTestGenome(t), bed.NewWriter(&parallel), cfg, 4))

	require.Equal(t, streamed.String(), parallel.String())
}

func TestParallelComplementMatchesStreaming(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t300\t400\nchr2\t50\t100\n"
	cfg := ComplementConfig{AssumeGenomeOrder: true}

	sc := bed.NewScanner(strings.NewReader(in))
	var streamed bytes.Buffer
	require.NoError(t, Complement(sc, makeTestGenome(t), bed.NewWriter(&streamed), cfg))

	psc := bed.NewScanner(strings.NewReader(in))
	var parallel bytes.Buffer
	require.NoError(t, ParallelComplement(psc, makeTestGenome(t), bed.NewWriter(&parallel), cfg, 4))

	require.Equal(t, streamed.String(), parallel.String())
}
