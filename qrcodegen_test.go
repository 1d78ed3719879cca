package qrcodegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrforge/qrcodegen/qrcodeecc"
	"github.com/qrforge/qrcodegen/qrsegment"
	"github.com/qrforge/qrcodegen/version"
)

func TestEncodeTextBasicNumeric(t *testing.T) {
	qr, err := EncodeText("01234567", qrcodeecc.Medium)
	require.NoError(t, err)
	assert.Equal(t, version.New(1), qr.Version())
	assert.Equal(t, int32(21), qr.Size())
}

func TestEncodeText500Digits(t *testing.T) {
	digits := make([]byte, 500)
	for i := range digits {
		digits[i] = byte('0' + i%10)
	}
	qr, err := EncodeText(string(digits), qrcodeecc.Low)
	require.NoError(t, err)
	assert.True(t, qr.Version().Value() >= 1)
}

func TestEncodeTextTooLongFails(t *testing.T) {
	huge := make([]byte, 100000)
	for i := range huge {
		huge[i] = 'a'
	}
	_, err := EncodeText(string(huge), qrcodeecc.High)
	assert.ErrorIs(t, err, ErrDataTooLong)
}

func TestModuleMatrixSignedShapeAndValues(t *testing.T) {
	qr, err := EncodeText("HELLO WORLD", qrcodeecc.Quartile)
	require.NoError(t, err)

	matrix := qr.ModuleMatrixSigned()
	side := int(qr.Size())
	require.Len(t, matrix, side)
	for _, row := range matrix {
		require.Len(t, row, side)
		for _, cell := range row {
			assert.Contains(t, []int8{1, -1, 2, -2}, cell)
		}
	}
	// Top-left finder pattern's center module is always dark function.
	assert.Equal(t, int8(2), matrix[3][3])
}

func TestNumDataCodewordsMatchesEncodeCodewordsExpectation(t *testing.T) {
	n := NumDataCodewords(version.New(1), qrcodeecc.Medium)
	assert.Equal(t, uint(16), n)
}

func TestAssembleDataCodewordsRejectsOverflow(t *testing.T) {
	seg := qrsegment.MakeBytes(make([]byte, 200)) // far beyond version 1's capacity
	_, err := AssembleDataCodewords(nil, []Segment{seg}, version.New(1), qrcodeecc.High)
	assert.Error(t, err)
}
