package qrsegment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrcodegen/qrsegmentmode"
	"github.com/qrforge/qrcodegen/version"
)

func TestMakeNumericBitLength(t *testing.T) {
	seg := MakeNumeric([]rune("01234567"))
	assert.Equal(t, qrsegmentmode.Numeric, seg.Mode())
	assert.Equal(t, uint(8), seg.NumChars())
	// 8 digits -> two groups of 3 (10 bits each) + one group of 2 (7 bits) = 27
	assert.Equal(t, 27, len(seg.Data()))
}

func TestMakeNumericPanicsOnNonDigit(t *testing.T) {
	assert.Panics(t, func() { MakeNumeric([]rune("12a")) })
}

func TestMakeAlphanumericBitLength(t *testing.T) {
	seg := MakeAlphanumeric([]rune("HELLO WORLD"))
	assert.Equal(t, qrsegmentmode.Alphanumeric, seg.Mode())
	assert.Equal(t, uint(11), seg.NumChars())
	// 11 chars -> 5 pairs of 11 bits + 1 leftover of 6 bits = 61
	assert.Equal(t, 61, len(seg.Data()))
}

func TestMakeKanji(t *testing.T) {
	seg, err := MakeKanji([]rune("日本"))
	require.NoError(t, err)
	assert.Equal(t, qrsegmentmode.Kanji, seg.Mode())
	assert.Equal(t, uint(2), seg.NumChars())
	assert.Equal(t, 26, len(seg.Data()))
}

func TestMakeKanjiRejectsNonKanji(t *testing.T) {
	_, err := MakeKanji([]rune("A"))
	assert.Error(t, err)
}

func TestIsNumericAndIsAlphanumeric(t *testing.T) {
	assert.True(t, IsNumeric([]rune("0123")))
	assert.False(t, IsNumeric([]rune("012a")))
	assert.True(t, IsAlphanumeric([]rune("HELLO WORLD")))
	assert.False(t, IsAlphanumeric([]rune("hello")))
}

func TestIsKanji(t *testing.T) {
	assert.True(t, IsKanji('日'))
	assert.False(t, IsKanji('A'))
}

func TestMakeSegmentsLocalityRule(t *testing.T) {
	// A short numeric run embedded in alphanumeric text should not split
	// into its own segment purely for compactness.
	segs := MakeSegments([]rune("AB12CD"))
	require.Len(t, segs, 1)
	assert.Equal(t, qrsegmentmode.Alphanumeric, segs[0].Mode())
}

func TestMakeSegmentsSwitchesToByteForLowercase(t *testing.T) {
	segs := MakeSegments([]rune("012345abcdefg"))
	require.Len(t, segs, 2)
	assert.Equal(t, qrsegmentmode.Numeric, segs[0].Mode())
	assert.Equal(t, qrsegmentmode.Byte, segs[1].Mode())
}

func TestMakeSegmentsEmpty(t *testing.T) {
	assert.Empty(t, MakeSegments(nil))
}

func TestGetTotalBits(t *testing.T) {
	segs := []Segment{MakeNumeric([]rune("123"))}
	total := GetTotalBits(segs, version.New(1))
	require.NotNil(t, total)
	// mode indicator 4 + char count (10 bits at v1) + payload 10 = 24
	assert.Equal(t, uint(24), *total)
}
