package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runMultiinter(t *testing.T, inputs []string, cfg MultiinterConfig) string {
	t.Helper()
	scanners := make([]*bed.Scanner, len(inputs))
	for i, in := range inputs {
		scanners[i] = bed.NewScanner(strings.NewReader(in))
	}
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Multiinter(scanners, w, cfg))
	return out.String()
}

func TestMultiinterBasic(t *testing.T) {
	f1 := "chr1\t100\t200\nchr1\t300\t400\n"
	f2 := "chr1\t150\t250\nchr1\t350\t450\n"
	got := runMultiinter(t, []string{f1, f2}, MultiinterConfig{})
	want := "chr1\t100\t150\t1\t1\t1\t0\n" +
		"chr1\t150\t200\t2\t1,2\t1\t1\n" +
		"chr1\t200\t250\t1\t2\t0\t1\n" +
		"chr1\t300\t350\t1\t1\t1\t0\n" +
		"chr1\t350\t400\t2\t1,2\t1\t1\n" +
		"chr1\t400\t450\t1\t2\t0\t1\n"
	require.Equal(t, want, got)
}

func TestMultiinterThreeFilesAllOverlap(t *testing.T) {
	f1 := "chr1\t100\t200\n"
	f2 := "chr1\t150\t250\n"
	f3 := "chr1\t180\t220\n"
	got := runMultiinter(t, []string{f1, f2, f3}, MultiinterConfig{})
	require.Contains(t, got, "chr1\t180\t200\t3\t1,2,3\t1\t1\t1\n")
}

func TestMultiinterCluster(t *testing.T) {
	f1 := "chr1\t100\t200\n"
	f2 := "chr1\t150\t250\n"
	got := runMultiinter(t, []string{f1, f2}, MultiinterConfig{Cluster: true})
	require.Equal(t, "chr1\t150\t200\t2\t1,2\t1\t1\n", got)
}

func TestMultiinterNoOverlap(t *testing.T) {
	f1 := "chr1\t100\t200\n"
	f2 := "chr1\t300\t400\n"
	got := runMultiinter(t, []string{f1, f2}, MultiinterConfig{})
	want := "chr1\t100\t200\t1\t1\t1\t0\nchr1\t300\t400\t1\t2\t0\t1\n"
	require.Equal(t, want, got)
}

func TestMultiinterMultiChrom(t *testing.T) {
	f1 := "chr1\t100\t200\nchr2\t50\t100\n"
	f2 := "chr1\t150\t250\nchr2\t75\t125\n"
	got := runMultiinter(t, []string{f1, f2}, MultiinterConfig{})
	require.Contains(t, got, "chr1\t")
	require.Contains(t, got, "chr2\t")
}

func TestMultiinterEmptyFile(t *testing.T) {
	f1 := "chr1\t100\t200\n"
	f2 := ""
	got := runMultiinter(t, []string{f1, f2}, MultiinterConfig{})
	require.Equal(t, "chr1\t100\t200\t1\t1\t1\t0\n", got)
}
