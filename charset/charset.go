// Package charset provides byte-mode character-set transcoding: a
// configurable charset for byte-mode segments (default ISO-8859-1, or
// UTF-8, or Shift-JIS), plus Shift-JIS-based Kanji-mode character
// detection, which the standard always derives from Shift-JIS regardless
// of the configured byte-mode charset.
package charset

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	"github.com/qrforge/qrcodegen/qrerror"
)

// Charset is an opaque handle onto a byte-mode character-set transcoder.
type Charset struct {
	name string
	enc  encoding.Encoding
}

// Name returns the canonical name of this charset, e.g. "ISO-8859-1".
func (c Charset) Name() string { return c.name }

var (
	// ISO88591 is the default byte-mode charset.
	ISO88591 = Charset{name: "ISO-8859-1", enc: charmap.ISO8859_1}
	// UTF8 passes Go's native UTF-8 runes through unchanged.
	UTF8 = Charset{name: "UTF-8", enc: encoding.Nop}
	// ShiftJIS is both a selectable byte-mode charset and the fixed
	// transcoding Kanji-mode classification and emission always use,
	// per the standard, regardless of the configured byte-mode charset.
	ShiftJIS = Charset{name: "Shift-JIS", enc: japanese.ShiftJIS}
)

var byName = map[string]Charset{
	"iso-8859-1": ISO88591,
	"latin1":     ISO88591,
	"utf-8":      UTF8,
	"utf8":       UTF8,
	"shift-jis":  ShiftJIS,
	"shift_jis":  ShiftJIS,
	"sjis":       ShiftJIS,
}

// Lookup resolves a charset by name (case-insensitive). It returns a
// qrerror.InvalidArgument error if the name is not recognized.
func Lookup(name string) (Charset, error) {
	cs, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Charset{}, qrerror.Newf(qrerror.InvalidArgument, "unrecognized byte-mode charset %q", name)
	}
	return cs, nil
}

// EncodeRune transcodes a single rune into this charset's byte
// representation. Returns a qrerror.EncodingFailed error if the rune
// cannot be represented.
func (c Charset) EncodeRune(r rune) ([]byte, error) {
	b, err := c.enc.NewEncoder().String(string(r))
	if err != nil {
		return nil, qrerror.Wrap(qrerror.EncodingFailed, err, "character not representable in "+c.name)
	}
	return []byte(b), nil
}

// EncodeString transcodes a whole string into this charset's byte
// representation.
func (c Charset) EncodeString(s string) ([]byte, error) {
	b, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return nil, qrerror.Wrap(qrerror.EncodingFailed, err, "string not representable in "+c.name)
	}
	return []byte(b), nil
}

// ShiftJISBytes transcodes r via Shift-JIS and, if it lands in the
// two-byte Kanji ranges the standard requires (0x81-0x9F or 0xE0-0xEB high
// byte, 0x40-0xFC low byte excluding 0x7F), returns the packed 13-bit
// value: (hi-0x81)*0xC0+(lo-0x40) if hi<=0x9F, else (hi-0xC1)*0xC0+(lo-0x40).
func ShiftJISBytes(r rune) (value uint32, bytes [2]byte, ok bool) {
	b, err := ShiftJIS.EncodeRune(r)
	if err != nil || len(b) != 2 {
		return 0, [2]byte{}, false
	}
	hi, lo := b[0], b[1]

	hiOK := (hi >= 0x81 && hi <= 0x9F) || (hi >= 0xE0 && hi <= 0xEB)
	loOK := lo >= 0x40 && lo <= 0xFC && lo != 0x7F
	if !hiOK || !loOK {
		return 0, [2]byte{}, false
	}

	var base byte
	if hi <= 0x9F {
		base = 0x81
	} else {
		base = 0xC1
	}
	value = uint32(hi-base)*0xC0 + uint32(lo-0x40)
	return value, [2]byte{hi, lo}, true
}
