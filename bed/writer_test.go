package bed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteBED3Line(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.WriteBED3Line([]byte("chr1"), 100, 200))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "chr1\t100\t200\n", buf.String())
}

func TestWriteBED3WithRest(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	original := []byte("chr1\t100\t200\tname\t50\t+")
	// restOffset=13 is what ParseBED3WithRest would report for this line:
	// the byte index of 'n' in "name", i.e. past the separating tab.
	assert.NoError(t, w.WriteBED3WithRest([]byte("chr1"), 150, 250, original, 13))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "chr1\t150\t250\tname\t50\t+\n", buf.String())
}

func TestWritePair(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.WritePair([]byte("chr1\t100\t200"), []byte("chr1\t150\t250")))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "chr1\t100\t200\tchr1\t150\t250\n", buf.String())
}

func TestWriteFloatFixed7(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	assert.NoError(t, w.WriteFloatFixed7(0.75))
	assert.NoError(t, w.Flush())
	assert.Equal(t, "0.7500000", buf.String())
}

func TestFormatSignificant6(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{0.366667, "0.366667"},
		{0.5, "0.5"},
		{1, "1"},
		{123456, "123456"},
		{0.000001234567, "1.23457e-06"},
	}
	for _, c := range cases {
		got := FormatSignificant6(c.in)
		assert.Equal(t, c.want, got, "FormatSignificant6(%v)", c.in)
	}
}
