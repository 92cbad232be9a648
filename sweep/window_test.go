package sweep

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grailbio/bedsweep/bed"
)

func runWindow(t *testing.T, aIn, bIn string, cfg WindowConfig) string {
	t.Helper()
	aSc := bed.NewScanner(strings.NewReader(aIn))
	bSc := bed.NewScanner(strings.NewReader(bIn))
	var out bytes.Buffer
	w := bed.NewWriter(&out)
	require.NoError(t, Window(aSc, bSc, w, cfg))
	return out.String()
}

func TestWindowSymmetric(t *testing.T) {
	a := "chr1\t500\t600\n"
	b := "chr1\t400\t450\nchr1\t650\t700\nchr1\t0\t50\n"
	got := runWindow(t, a, b, WindowConfig{Window: 100})
	require.Equal(t, "chr1\t500\t600\tchr1\t400\t450\nchr1\t500\t600\tchr1\t650\t700\n", got)
}

func TestWindowAsymmetric(t *testing.T) {
	a := "chr1\t500\t600\n"
	b := "chr1\t400\t450\nchr1\t650\t700\n"
	got := runWindow(t, a, b, WindowConfig{Left: 200, Right: 10})
	require.Equal(t, "chr1\t500\t600\tchr1\t400\t450\n", got)
}

func TestWindowCount(t *testing.T) {
	a := "chr1\t500\t600\n"
	b := "chr1\t400\t450\nchr1\t650\t700\n"
	got := runWindow(t, a, b, WindowConfig{Window: 100, Count: true})
	require.Equal(t, "chr1\t500\t600\t2\n", got)
}

func TestWindowNoOverlap(t *testing.T) {
	a := "chr1\t500\t600\nchr1\t2000\t2100\n"
	b := "chr1\t400\t450\n"
	got := runWindow(t, a, b, WindowConfig{Window: 100, NoOverlap: true})
	require.Equal(t, "chr1\t2000\t2100\n", got)
}

func TestWindowNearZeroStartSaturates(t *testing.T) {
	a := "chr1\t5\t10\n"
	b := "chr1\t0\t3\n"
	got := runWindow(t, a, b, WindowConfig{Window: 100})
	require.Equal(t, "chr1\t5\t10\tchr1\t0\t3\n", got)
}
