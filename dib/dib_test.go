package dib

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallMatrix() [][]int8 {
	// A trivial 3x3 grid: a dark diagonal on a light background.
	return [][]int8{
		{1, -1, -1},
		{-1, 1, -1},
		{-1, -1, 2},
	}
}

func TestEncode1bppHeaderLayout(t *testing.T) {
	data, err := Encode1bpp(smallMatrix(), 2, "#000000", "#FFFFFF")
	require.NoError(t, err)

	assert.Equal(t, "BM", string(data[0:2]))
	pixelOffset := binary.LittleEndian.Uint32(data[10:14])
	assert.Equal(t, uint32(14+40+8), pixelOffset) // file + DIB header + 2-entry palette

	width := binary.LittleEndian.Uint32(data[18:22])
	expectedSide := uint32((3 + 2*quietZoneModules) * 2)
	assert.Equal(t, expectedSide, width)

	bpp := binary.LittleEndian.Uint16(data[28:30])
	assert.Equal(t, uint16(1), bpp)
}

func TestEncode24bppHeaderLayout(t *testing.T) {
	data, err := Encode24bpp(smallMatrix(), 1, "#FF0000", "#00FF00")
	require.NoError(t, err)

	pixelOffset := binary.LittleEndian.Uint32(data[10:14])
	assert.Equal(t, uint32(14+40), pixelOffset)

	bpp := binary.LittleEndian.Uint16(data[28:30])
	assert.Equal(t, uint16(24), bpp)
}

func TestEncodeRejectsBadColor(t *testing.T) {
	_, err := Encode1bpp(smallMatrix(), 2, "not-a-color", "#FFFFFF")
	assert.Error(t, err)
}

func TestEncodeRejectsZeroModuleSize(t *testing.T) {
	_, err := Encode1bpp(smallMatrix(), 0, "#000000", "#FFFFFF")
	assert.Error(t, err)
}

func TestSaveWritesFile(t *testing.T) {
	path := t.TempDir() + "/out.bmp"
	err := Save1bpp(path, smallMatrix(), 2, "#000000", "#FFFFFF")
	require.NoError(t, err)
}
