// Package qrsegmentmode describes how a QR Code segment's data bits are interpreted.
package qrsegmentmode

import "github.com/qrforge/qrcodegen/version"

// Mode describes how a segment's data bits are interpreted.
type Mode uint32

const (
	Numeric Mode = iota
	Alphanumeric
	Byte
	Kanji
	Eci
)

// ModeBits returns an unsigned 4-bit integer value (range 0 to 15)
// representing the mode indicator bits for this mode object.
func (m Mode) ModeBits() uint32 {
	switch m {
	case Numeric:
		return 0x1
	case Alphanumeric:
		return 0x2
	case Byte:
		return 0x4
	case Kanji:
		return 0x8
	case Eci:
		return 0x7
	default:
		panic("unknown Mode")
	}
}

// NumCharCountBits returns the bit width of the character count field for a segment in this mode
// in a QR Code at the given version number. The result is in the range [0, 16].
func (m Mode) NumCharCountBits(ver version.Version) uint8 {
	var tmp [3]uint8

	switch m {
	case Numeric:
		tmp = [3]uint8{10, 12, 14}
	case Alphanumeric:
		tmp = [3]uint8{9, 11, 13}
	case Byte:
		tmp = [3]uint8{8, 16, 16}
	case Kanji:
		tmp = [3]uint8{8, 10, 12}
	case Eci:
		tmp = [3]uint8{0, 0, 0}
	default:
		panic("unknown Mode")
	}

	idx := (ver.Value() + 7) / 17
	return tmp[idx]
}

// Compactness orders modes from most to least compact per character, used by
// the greedy mode classifier: Numeric > Alphanumeric > Kanji > Byte.
// Lower is more compact.
func (m Mode) Compactness() int {
	switch m {
	case Numeric:
		return 0
	case Alphanumeric:
		return 1
	case Kanji:
		return 2
	case Byte:
		return 3
	default:
		return 4
	}
}

// String returns a human-readable name, used in error messages.
func (m Mode) String() string {
	switch m {
	case Numeric:
		return "numeric"
	case Alphanumeric:
		return "alphanumeric"
	case Byte:
		return "byte"
	case Kanji:
		return "kanji"
	case Eci:
		return "eci"
	default:
		return "unknown"
	}
}
