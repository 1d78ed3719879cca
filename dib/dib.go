// Package dib renders a QR Code module matrix to a Windows BMP v3 device
// independent bitmap: a 4-module quiet zone border, rows emitted bottom-up
// and padded to a 4-byte multiple, in either 1bpp (2-entry palette, 62-byte
// header) or 24bpp (BGR, 54-byte header) form.
package dib

import (
	"encoding/binary"
	"encoding/hex"
	"os"

	"github.com/qrforge/qrcodegen/qrerror"
)

const quietZoneModules = 4

type rgb struct {
	r, g, b byte
}

// parseColor parses a "#RRGGBB" hex color string.
func parseColor(s string) (rgb, error) {
	if len(s) != 7 || s[0] != '#' {
		return rgb{}, qrerror.Newf(qrerror.InvalidArgument, "color %q must be in #RRGGBB form", s)
	}
	raw, err := hex.DecodeString(s[1:])
	if err != nil || len(raw) != 3 {
		return rgb{}, qrerror.Wrap(qrerror.InvalidArgument, err, "invalid color "+s)
	}
	return rgb{r: raw[0], g: raw[1], b: raw[2]}, nil
}

// Encode1bpp renders matrix (a signed module grid: positive values dark,
// negative light) to a monochrome BMP, scaling each module to a
// moduleSize x moduleSize block of pixels and surrounding it with a
// 4-module quiet zone.
func Encode1bpp(matrix [][]int8, moduleSize int, fore, back string) ([]byte, error) {
	geo, foreC, backC, err := prepare(matrix, moduleSize, fore, back)
	if err != nil {
		return nil, err
	}
	return geo.encode1bpp(foreC, backC), nil
}

// Encode24bpp renders matrix to a 24-bit BGR BMP, scaling and framing it
// the same way as Encode1bpp.
func Encode24bpp(matrix [][]int8, moduleSize int, fore, back string) ([]byte, error) {
	geo, foreC, backC, err := prepare(matrix, moduleSize, fore, back)
	if err != nil {
		return nil, err
	}
	return geo.encode24bpp(foreC, backC), nil
}

// Save1bpp writes the result of Encode1bpp to path.
func Save1bpp(path string, matrix [][]int8, moduleSize int, fore, back string) error {
	data, err := Encode1bpp(matrix, moduleSize, fore, back)
	if err != nil {
		return err
	}
	return save(path, data)
}

// Save24bpp writes the result of Encode24bpp to path.
func Save24bpp(path string, matrix [][]int8, moduleSize int, fore, back string) error {
	data, err := Encode24bpp(matrix, moduleSize, fore, back)
	if err != nil {
		return err
	}
	return save(path, data)
}

func save(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return qrerror.Wrap(qrerror.IoError, err, "writing DIB to "+path)
	}
	return nil
}

// geometry holds the pixel-space layout shared by both bit depths, so the
// two Encode* functions differ only in how a pixel's color is packed.
type geometry struct {
	side      int // module grid side length
	widthPx   int
	heightPx  int
	isDark    func(py, px int) bool
}

func prepare(matrix [][]int8, moduleSize int, foreStr, backStr string) (geometry, rgb, rgb, error) {
	if moduleSize < 1 {
		return geometry{}, rgb{}, rgb{}, qrerror.Newf(qrerror.InvalidArgument, "moduleSize %v must be >= 1", moduleSize)
	}
	fore, err := parseColor(foreStr)
	if err != nil {
		return geometry{}, rgb{}, rgb{}, err
	}
	back, err := parseColor(backStr)
	if err != nil {
		return geometry{}, rgb{}, rgb{}, err
	}

	side := len(matrix)
	widthModules := side + 2*quietZoneModules
	widthPx := widthModules * moduleSize

	isDark := func(py, px int) bool {
		moduleRow := py/moduleSize - quietZoneModules
		moduleCol := px/moduleSize - quietZoneModules
		if moduleRow < 0 || moduleRow >= side || moduleCol < 0 || moduleCol >= side {
			return false
		}
		return matrix[moduleRow][moduleCol] > 0
	}

	return geometry{side: side, widthPx: widthPx, heightPx: widthPx, isDark: isDark}, fore, back, nil
}

func (g geometry) encode1bpp(fore, back rgb) []byte {
	const fileHeaderSize = 14
	const dibHeaderSize = 40
	const paletteSize = 2 * 4
	pixelOffset := fileHeaderSize + dibHeaderSize + paletteSize

	rowSizeRaw := (g.widthPx + 7) / 8
	rowSize := ((rowSizeRaw + 3) / 4) * 4
	pixelDataSize := rowSize * g.heightPx
	fileSize := pixelOffset + pixelDataSize

	buf := make([]byte, fileSize)
	writeFileHeader(buf, fileSize, pixelOffset)
	writeDIBHeader(buf[fileHeaderSize:], g.widthPx, g.heightPx, 1, pixelDataSize, 2)

	palette := buf[fileHeaderSize+dibHeaderSize:]
	putBGRA(palette[0:4], back)
	putBGRA(palette[4:8], fore)

	pixels := buf[pixelOffset:]
	for outRow, py := 0, g.heightPx-1; py >= 0; outRow, py = outRow+1, py-1 {
		row := pixels[outRow*rowSize : outRow*rowSize+rowSize]
		for px := 0; px < g.widthPx; px++ {
			if g.isDark(py, px) {
				row[px/8] |= 1 << uint(7-px%8)
			}
		}
	}
	return buf
}

func (g geometry) encode24bpp(fore, back rgb) []byte {
	const fileHeaderSize = 14
	const dibHeaderSize = 40
	pixelOffset := fileHeaderSize + dibHeaderSize

	rowSizeRaw := g.widthPx * 3
	rowSize := ((rowSizeRaw + 3) / 4) * 4
	pixelDataSize := rowSize * g.heightPx
	fileSize := pixelOffset + pixelDataSize

	buf := make([]byte, fileSize)
	writeFileHeader(buf, fileSize, pixelOffset)
	writeDIBHeader(buf[fileHeaderSize:], g.widthPx, g.heightPx, 24, pixelDataSize, 0)

	pixels := buf[pixelOffset:]
	for outRow, py := 0, g.heightPx-1; py >= 0; outRow, py = outRow+1, py-1 {
		row := pixels[outRow*rowSize : outRow*rowSize+rowSize]
		for px := 0; px < g.widthPx; px++ {
			c := back
			if g.isDark(py, px) {
				c = fore
			}
			off := px * 3
			row[off] = c.b
			row[off+1] = c.g
			row[off+2] = c.r
		}
	}
	return buf
}

func writeFileHeader(buf []byte, fileSize, pixelOffset int) {
	buf[0] = 'B'
	buf[1] = 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(buf[6:10], 0)
	binary.LittleEndian.PutUint32(buf[10:14], uint32(pixelOffset))
}

// writeDIBHeader fills a 40-byte BITMAPINFOHEADER into buf[0:40].
func writeDIBHeader(buf []byte, widthPx, heightPx, bitsPerPixel, pixelDataSize, colorsUsed int) {
	binary.LittleEndian.PutUint32(buf[0:4], 40)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(widthPx))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(heightPx)) // positive => bottom-up
	binary.LittleEndian.PutUint16(buf[12:14], 1)                // planes
	binary.LittleEndian.PutUint16(buf[14:16], uint16(bitsPerPixel))
	binary.LittleEndian.PutUint32(buf[16:20], 0) // BI_RGB, no compression
	binary.LittleEndian.PutUint32(buf[20:24], uint32(pixelDataSize))
	binary.LittleEndian.PutUint32(buf[24:28], 0) // x pixels per meter
	binary.LittleEndian.PutUint32(buf[28:32], 0) // y pixels per meter
	binary.LittleEndian.PutUint32(buf[32:36], uint32(colorsUsed))
	binary.LittleEndian.PutUint32(buf[36:40], 0) // important colors
}

func putBGRA(buf []byte, c rgb) {
	buf[0] = c.b
	buf[1] = c.g
	buf[2] = c.r
	buf[3] = 0
}
