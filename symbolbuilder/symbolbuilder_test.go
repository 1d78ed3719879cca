package symbolbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrcodegen/qrcodeecc"
	"github.com/qrforge/qrcodegen/version"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(Options{
		Ecl:        qrcodeecc.Medium,
		MinVersion: version.New(1),
		MaxVersion: version.New(40),
	})
	require.NoError(t, err)
	return b
}

func TestTryAppendNumeric(t *testing.T) {
	b := newTestBuilder(t)
	for _, c := range "01234567" {
		ok, mode, wire, err := b.TryAppend(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "numeric", mode.String())
		assert.Equal(t, []byte{byte(c)}, wire)
	}
	assert.False(t, b.Empty())
}

func TestTryAppendKanjiClassification(t *testing.T) {
	b := newTestBuilder(t)
	ok, mode, wire, err := b.TryAppend('日')
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kanji", mode.String())
	assert.Len(t, wire, 2)
}

func TestSealProducesQrCode(t *testing.T) {
	b := newTestBuilder(t)
	for _, c := range "HELLO WORLD" {
		ok, _, _, err := b.TryAppend(c)
		require.NoError(t, err)
		require.True(t, ok)
	}
	qr, err := b.Seal(nil, qrcodeecc.Medium, nil)
	require.NoError(t, err)
	assert.Equal(t, b.Version(), qr.Version())
}

func TestVersionEscalation(t *testing.T) {
	b, err := NewBuilder(Options{
		Ecl:        qrcodeecc.Low,
		MinVersion: version.New(1),
		MaxVersion: version.New(2),
	})
	require.NoError(t, err)

	// Version 1-L holds 152 bits of numeric data at best (41 digits);
	// version 2-L holds 272 bits (77 digits). 60 digits need 214 bits, so
	// the builder is forced to escalate to version 2.
	for i := 0; i < 60; i++ {
		ok, _, _, err := b.TryAppend('9')
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, version.New(2), b.Version())
}

func TestTryAppendReturnsFalseWhenFull(t *testing.T) {
	b, err := NewBuilder(Options{
		Ecl:        qrcodeecc.High,
		MinVersion: version.New(1),
		MaxVersion: version.New(1),
	})
	require.NoError(t, err)

	var filled int
	for {
		ok, _, _, err := b.TryAppend('9')
		require.NoError(t, err)
		if !ok {
			break
		}
		filled++
		require.Less(t, filled, 10000) // guard against an infinite loop bug
	}
	assert.Greater(t, filled, 0)
}

func TestCloneIsIndependent(t *testing.T) {
	b := newTestBuilder(t)
	ok, _, _, err := b.TryAppend('1')
	require.NoError(t, err)
	require.True(t, ok)

	clone := b.Clone()
	ok, _, _, err = clone.TryAppend('2')
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, b.segs[0].numChars() == 1)
	assert.True(t, clone.segs[0].numChars() == 2)
}
