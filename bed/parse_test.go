package bed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBED3(t *testing.T) {
	chrom, start, end, ok := ParseBED3([]byte("chr1\t100\t200"))
	assert.True(t, ok)
	assert.Equal(t, "chr1", string(chrom))
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(200), end)

	chrom, start, end, ok = ParseBED3([]byte("chr1\t100\t200\tname\t50\t+"))
	assert.True(t, ok)
	assert.Equal(t, "chr1", string(chrom))
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(200), end)

	_, _, _, ok = ParseBED3([]byte("chr1\t100"))
	assert.False(t, ok)

	_, _, _, ok = ParseBED3([]byte(""))
	assert.False(t, ok)

	_, _, _, ok = ParseBED3([]byte("chr1\t200\t100"))
	assert.False(t, ok, "end < start must be rejected")
}

func TestParseBED3ZeroLengthNormalization(t *testing.T) {
	SetNormalizeZeroLength(false)
	_, start, end, ok := ParseBED3([]byte("chr1\t100\t100"))
	assert.True(t, ok)
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(100), end)

	SetNormalizeZeroLength(true)
	defer SetNormalizeZeroLength(false)
	_, start, end, ok = ParseBED3([]byte("chr1\t100\t100"))
	assert.True(t, ok)
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(101), end)
}

func TestParseBED3WithRest(t *testing.T) {
	chrom, start, end, restOffset, ok := ParseBED3WithRest([]byte("chr1\t100\t200\tname\t50\t+"))
	assert.True(t, ok)
	assert.Equal(t, "chr1", string(chrom))
	assert.Equal(t, uint64(100), start)
	assert.Equal(t, uint64(200), end)
	assert.Equal(t, 13, restOffset, "restOffset points past the tab, at the start of column 4")

	_, _, _, restOffset, ok = ParseBED3WithRest([]byte("chr1\t100\t200"))
	assert.True(t, ok)
	assert.Equal(t, 12, restOffset)
}

func TestShouldSkip(t *testing.T) {
	assert.True(t, ShouldSkip([]byte("")))
	assert.True(t, ShouldSkip([]byte("#comment")))
	assert.True(t, ShouldSkip([]byte("track name=foo")))
	assert.True(t, ShouldSkip([]byte("browser position chr1:1-100")))
	assert.False(t, ShouldSkip([]byte("chr1\t100\t200")))
}

func TestParseUint64Fast(t *testing.T) {
	n, ok := parseUint64Fast([]byte("12345"))
	assert.True(t, ok)
	assert.Equal(t, uint64(12345), n)

	_, ok = parseUint64Fast([]byte(""))
	assert.False(t, ok)

	_, ok = parseUint64Fast([]byte("12a45"))
	assert.False(t, ok)
}
