package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runMerge(t *testing.T, in string, cfg MergeConfig) string {
	t.Helper()
	sc := bed.NewScanner(strings.NewReader(in))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Merge(sc, w, cfg))
	return out.String()
}

func TestMergeAdjacentOverlapping(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t150\t250\nchr1\t400\t500\n"
	got := runMerge(t, in, MergeConfig{})
	require.Equal(t, "chr1\t100\t250\nchr1\t400\t500\n", got)
}

func TestMergeDistance(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t210\t300\n"
	require.Equal(t, "chr1\t100\t300\n", runMerge(t, in, MergeConfig{Distance: 10}))
	require.Equal(t, "chr1\t100\t200\nchr1\t210\t300\n", runMerge(t, in, MergeConfig{Distance: 9}))
}

func TestMergeCount(t *testing.T) {
	in := "chr1\t100\t200\nchr1\t150\t250\nchr1\t400\t500\n"
	got := runMerge(t, in, MergeConfig{Count: true})
	require.Equal(t, "chr1\t100\t250\t2\nchr1\t400\t500\t1\n", got)
}

func TestMergeStrandSpecific(t *testing.T) {
	in := "chr1\t100\t200\tn\t0\t+\nchr1\t150\t250\tn\t0\t-\n"
	got := runMerge(t, in, MergeConfig{StrandSpecific: true})
	require.Equal(t, "chr1\t100\t200\t+\nchr1\t150\t250\t-\n", got)
}

func TestMergeDifferentChromosomesNeverMerge(t *testing.T) {
	in := "chr1\t100\t200\nchr2\t100\t200\n"
	got := runMerge(t, in, MergeConfig{})
	require.Equal(t, "chr1\t100\t200\nchr2\t100\t200\n", got)
}
