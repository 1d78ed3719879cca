package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	cs, err := Lookup("iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, ISO88591, cs)

	cs, err = Lookup("  Shift_JIS ")
	require.NoError(t, err)
	assert.Equal(t, ShiftJIS, cs)

	_, err = Lookup("does-not-exist")
	assert.Error(t, err)
}

func TestEncodeStringISO88591(t *testing.T) {
	b, err := ISO88591.EncodeString("Hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), b)
}

func TestEncodeRuneRejectsUnrepresentable(t *testing.T) {
	_, err := ISO88591.EncodeRune('日')
	assert.Error(t, err)
}

func TestShiftJISBytesKanjiRange(t *testing.T) {
	// U+65E5 ("日") is a standard Shift-JIS kanji test character; its
	// Shift-JIS bytes are 0x93 0xFA, landing in the first kanji band.
	value, bytes, ok := ShiftJISBytes('日')
	require.True(t, ok)
	assert.Equal(t, [2]byte{0x93, 0xFA}, bytes)
	assert.Equal(t, uint32(0x93-0x81)*0xC0+uint32(0xFA-0x40), value)
}

func TestShiftJISBytesRejectsAscii(t *testing.T) {
	// 'A' encodes to a single Shift-JIS byte, not a two-byte kanji pair.
	_, _, ok := ShiftJISBytes('A')
	assert.False(t, ok)
}
