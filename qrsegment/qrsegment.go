// Package qrsegment implements the per-mode symbol-character emission
// (mode encoders) for numeric, alphanumeric, byte, and Kanji segments, plus
// a simple whole-string greedy segmentation helper.
package qrsegment

import (
	"github.com/qrforge/qrcodegen/charset"
	"github.com/qrforge/qrcodegen/qrerror"
	"github.com/qrforge/qrcodegen/qrsegmentmode"
	"github.com/qrforge/qrcodegen/version"
)

// The set of all legal characters in alphanumeric mode,
// where each character value maps to the index in the string.
var (
	AlphanumericCharset = [45]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
		'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
		' ', '$', '%', '*', '+', '-', '.', '/', ':'}
	alphanumericIndex = make(map[rune]int, 45)
)

func init() {
	for i, c := range AlphanumericCharset {
		alphanumericIndex[c] = i
	}
}

/*---- Segment functionality ----*/

// Segment is a segment of character/binary data in a QR Code symbol.
//
// Instances of this struct are immutable.
type Segment struct {
	mode     qrsegmentmode.Mode
	numchars uint
	data     BitBuffer
}

// New creates a new QR Code segment with the given attributes and data.
//
// The character count (numchars) must agree with the mode and the bit
// buffer length, but the constraint isn't checked.
func New(mode qrsegmentmode.Mode, numchars uint, data BitBuffer) Segment {
	return Segment{mode: mode, numchars: numchars, data: data}
}

// Mode returns the mode indicator of this segment.
func (s Segment) Mode() qrsegmentmode.Mode { return s.mode }

// NumChars returns the character count field of this segment.
func (s Segment) NumChars() uint { return s.numchars }

// Data returns the data bits of this segment.
func (s Segment) Data() BitBuffer { return s.data }

/*---- Static factory functions (mode encoders) ----*/

// MakeBytes returns a segment representing the given binary data encoded
// in byte mode. All input byte slices are acceptable.
func MakeBytes(data []byte) Segment {
	bb := make(BitBuffer, 0, len(data)*8)
	for _, b := range data {
		bb.AppendBits(uint32(b), 8)
	}
	return Segment{mode: qrsegmentmode.Byte, numchars: uint(len(data)), data: bb}
}

// MakeNumeric returns a segment representing the given string of decimal
// digits encoded in numeric mode.
//
// Panics if the text contains non-digit characters.
func MakeNumeric(text []rune) Segment {
	bb := make(BitBuffer, 0, len(text)*3+(len(text)+2)/3)
	var accumdata uint32
	var accumcount uint8
	for _, c := range text {
		if '0' > c || c > '9' {
			panic("string contains non-numeric characters")
		}
		accumdata = accumdata*10 + uint32(c) - uint32('0')
		accumcount++
		if accumcount == 3 {
			bb.AppendBits(accumdata, 10)
			accumdata = 0
			accumcount = 0
		}
	}
	if accumcount > 0 { // 1 or 2 digits remaining
		bb.AppendBits(accumdata, uint8(accumcount)*3+1)
	}
	return Segment{mode: qrsegmentmode.Numeric, numchars: uint(len(text)), data: bb}
}

// MakeAlphanumeric returns a segment representing the given text string
// encoded in alphanumeric mode.
//
// Panics if the text contains unencodable characters.
func MakeAlphanumeric(text []rune) Segment {
	bb := make(BitBuffer, 0, len(text)*5+(len(text)+1)/2)
	var accumdata uint32
	var accumcount uint32
	for _, c := range text {
		idx, ok := alphanumericIndex[c]
		if !ok {
			panic("string contains unencodable characters in alphanumeric mode")
		}
		accumdata = accumdata*45 + uint32(idx)
		accumcount++
		if accumcount == 2 {
			bb.AppendBits(accumdata, 11)
			accumdata = 0
			accumcount = 0
		}
	}
	if accumcount > 0 { // 1 character remaining
		bb.AppendBits(accumdata, 6)
	}
	return Segment{mode: qrsegmentmode.Alphanumeric, numchars: uint(len(text)), data: bb}
}

// MakeKanji returns a segment representing the given text string encoded
// in Kanji mode. Each character is transcoded to Shift-JIS (independent of
// any configured byte-mode charset, per the standard) and packed to a
// 13-bit value.
//
// Returns a qrerror.EncodingFailed error if any character does not fall
// within the Kanji-mode Shift-JIS ranges.
func MakeKanji(text []rune) (Segment, error) {
	bb := make(BitBuffer, 0, len(text)*13)
	for _, c := range text {
		value, _, ok := charset.ShiftJISBytes(c)
		if !ok {
			return Segment{}, qrerror.Newf(qrerror.EncodingFailed, "character %q is not encodable in kanji mode", c)
		}
		bb.AppendBits(value, 13)
	}
	return Segment{mode: qrsegmentmode.Kanji, numchars: uint(len(text)), data: bb}, nil
}

/*---- Acceptance tests ----*/

// IsNumeric tests whether the given string can be encoded as a segment in
// numeric mode: every character is in the range 0 to 9.
func IsNumeric(text []rune) bool {
	for _, c := range text {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IsAlphanumeric tests whether the given string can be encoded as a
// segment in alphanumeric mode.
func IsAlphanumeric(text []rune) bool {
	for _, c := range text {
		if _, ok := alphanumericIndex[c]; !ok {
			return false
		}
	}
	return true
}

// IsKanji tests whether a single rune falls within the Kanji-mode
// Shift-JIS ranges.
func IsKanji(c rune) bool {
	_, _, ok := charset.ShiftJISBytes(c)
	return ok
}

/*---- Whole-string greedy segmentation ----*/

// MakeSegments returns a list of zero or more segments to represent the
// given Unicode text string, greedily switching between numeric,
// alphanumeric, and byte (UTF-8) modes: a run continues in its current
// mode as long as the current mode still accepts the next character
// (locality beats global compactness), and only switches mode when it
// must.
//
// This is the simple whole-string form used by the mid-level API; Kanji
// segmentation and version-aware capacity tracking live in the
// symbolbuilder package, which the high-level structured-append API uses.
func MakeSegments(text []rune) []Segment {
	if len(text) == 0 {
		return []Segment{}
	}

	var segs []Segment
	var runMode qrsegmentmode.Mode
	var run []rune

	flush := func() {
		if len(run) == 0 {
			return
		}
		switch runMode {
		case qrsegmentmode.Numeric:
			segs = append(segs, MakeNumeric(run))
		case qrsegmentmode.Alphanumeric:
			segs = append(segs, MakeAlphanumeric(run))
		default:
			segs = append(segs, MakeBytes([]byte(string(run))))
		}
		run = nil
	}

	for _, c := range text {
		var mode qrsegmentmode.Mode
		switch {
		case c >= '0' && c <= '9':
			mode = qrsegmentmode.Numeric
		default:
			if _, ok := alphanumericIndex[c]; ok {
				mode = qrsegmentmode.Alphanumeric
			} else {
				mode = qrsegmentmode.Byte
			}
		}

		if len(run) > 0 && modeStillAccepts(runMode, c) {
			run = append(run, c)
			continue
		}

		flush()
		runMode = mode
		run = append(run, c)
	}
	flush()

	return segs
}

// modeStillAccepts reports whether character c can continue being
// accumulated in mode without switching, used by MakeSegments' locality
// rule.
func modeStillAccepts(mode qrsegmentmode.Mode, c rune) bool {
	switch mode {
	case qrsegmentmode.Numeric:
		return c >= '0' && c <= '9'
	case qrsegmentmode.Alphanumeric:
		_, ok := alphanumericIndex[c]
		return ok
	case qrsegmentmode.Byte:
		return true
	default:
		return false
	}
}

/*---- Other static functions ----*/

// GetTotalBits calculates and returns the number of bits needed to encode
// the given segments at the given version. The result is nil if a segment
// has too many characters to fit its length field.
func GetTotalBits(segs []Segment, ver version.Version) *uint {
	var result uint
	for _, seg := range segs {
		ccbits := seg.mode.NumCharCountBits(ver)
		limit := uint(1) << ccbits
		if seg.numchars >= limit {
			return nil
		}
		result += 4 + uint(ccbits)
		result += uint(len(seg.data))
	}
	return &result
}
