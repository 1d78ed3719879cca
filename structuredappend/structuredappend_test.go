package structuredappend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrcodegen/charset"
	"github.com/qrforge/qrcodegen/qrcodeecc"
	"github.com/qrforge/qrcodegen/version"
)

func TestAppendStringSingleSymbol(t *testing.T) {
	s, err := New(Options{Ecl: qrcodeecc.Medium})
	require.NoError(t, err)

	require.NoError(t, s.AppendString("01234567"))
	require.NoError(t, s.Finalize())

	assert.Equal(t, 1, s.Count())
	sym, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, version.New(1), sym.Version())

	matrix := sym.ModuleMatrix()
	side := 17 + 4*int(sym.Version().Value())
	assert.Len(t, matrix, side)
	assert.Len(t, matrix[0], side)
}

func TestAppendStringRejectsWhenStructuredAppendDisallowed(t *testing.T) {
	s, err := New(Options{
		Ecl:        qrcodeecc.High,
		MinVersion: version.New(1),
		MaxVersion: version.New(1),
	})
	require.NoError(t, err)

	big := make([]rune, 0, 2000)
	for i := 0; i < 2000; i++ {
		big = append(big, 'a'+rune(i%26))
	}
	err = s.AppendString(string(big))
	assert.Error(t, err)
	// A failed call must leave the collection untouched.
	assert.NoError(t, s.Finalize())
	assert.Equal(t, 1, s.Count())
	sym, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0, sym.Position())
}

func TestStructuredAppendSplitsAcrossSymbols(t *testing.T) {
	s, err := New(Options{
		Ecl:                   qrcodeecc.Low,
		MinVersion:            version.New(1),
		MaxVersion:            version.New(1),
		AllowStructuredAppend: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.AppendString("abcdefghijklmnopqrstuvwxyz"))
	require.NoError(t, s.Finalize())

	require.GreaterOrEqual(t, s.Count(), 2)
	for i := 0; i < s.Count(); i++ {
		sym, err := s.Get(i)
		require.NoError(t, err)
		assert.Equal(t, i, sym.Position())
		assert.Equal(t, s.Count(), sym.Total())
		assert.LessOrEqual(t, sym.Version().Value(), uint8(1))
	}
}

func TestKanjiSingleSegment(t *testing.T) {
	s, err := New(Options{Ecl: qrcodeecc.Medium, Charset: charset.ShiftJIS})
	require.NoError(t, err)

	require.NoError(t, s.AppendString("日本"))
	require.NoError(t, s.Finalize())
	assert.Equal(t, 1, s.Count())
}

func TestGetOutOfRange(t *testing.T) {
	s, err := New(Options{Ecl: qrcodeecc.Medium})
	require.NoError(t, err)
	require.NoError(t, s.AppendString("1"))
	require.NoError(t, s.Finalize())

	_, err = s.Get(5)
	assert.Error(t, err)
}

func TestRenderDIB(t *testing.T) {
	s, err := New(Options{Ecl: qrcodeecc.Medium})
	require.NoError(t, err)
	require.NoError(t, s.AppendString("01234567"))
	require.NoError(t, s.Finalize())
	sym, err := s.Get(0)
	require.NoError(t, err)

	data, err := sym.Get1bppDIB(4, "#000000", "#FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[0:2]))

	data, err = sym.Get24bppDIB(4, "#000000", "#FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[0:2]))
}
