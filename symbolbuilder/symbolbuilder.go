// Package symbolbuilder implements greedy per-character mode classification,
// version escalation, and data-codeword assembly (the symbol-builder and
// message-assembler roles are merged into one package here: see
// DESIGN.md). A Builder accepts runes one at a time, growing the minimal
// version that still fits what has been accumulated so far, and seals the
// result into a finished QrCode.
package symbolbuilder

import (
	"github.com/qrforge/qrcodegen"
	"github.com/qrforge/qrcodegen/charset"
	"github.com/qrforge/qrcodegen/mask"
	"github.com/qrforge/qrcodegen/qrcodeecc"
	"github.com/qrforge/qrcodegen/qrerror"
	"github.com/qrforge/qrcodegen/qrsegment"
	"github.com/qrforge/qrcodegen/qrsegmentmode"
	"github.com/qrforge/qrcodegen/version"
)

// openSegment accumulates characters of a single run in a single mode
// before it is sealed into a qrsegment.Segment.
type openSegment struct {
	mode  qrsegmentmode.Mode
	runes []rune // Numeric, Alphanumeric, Kanji
	bytes []byte // Byte
}

func (s *openSegment) numChars() uint {
	if s.mode == qrsegmentmode.Byte {
		return uint(len(s.bytes))
	}
	return uint(len(s.runes))
}

// Builder greedily assembles one QR Code symbol's worth of segments,
// tracking the bit budget of the smallest version in [minVersion,
// maxVersion] still known to fit, and escalating that version as data is
// appended.
type Builder struct {
	ecl        qrcodeecc.QrCodeEcc
	cs         charset.Charset
	minVersion version.Version
	maxVersion version.Version
	ver        version.Version

	reserveBits uint // bits reserved ahead of the segment stream, e.g. a structured-append header

	dataBitCounter  uint // bits used so far (reserveBits + all sealed/open segment headers+payloads)
	dataBitCapacity uint // getNumDataCodewords(ver, ecl) * 8

	segs         []openSegment
	segModeCount [5]uint // number of segments opened per mode, keyed by qrsegmentmode.Mode
}

// Options configures a new Builder.
type Options struct {
	Ecl         qrcodeecc.QrCodeEcc
	Charset     charset.Charset // byte-mode charset; zero value means charset.ISO88591
	MinVersion  version.Version
	MaxVersion  version.Version
	ReserveBits uint // bits reserved for a caller-supplied header (e.g. structured-append), before any segment
}

// NewBuilder creates an empty Builder starting at opts.MinVersion.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.MinVersion == 0 {
		opts.MinVersion = version.Min
	}
	if opts.MaxVersion == 0 {
		opts.MaxVersion = version.Max
	}
	if opts.MinVersion > opts.MaxVersion {
		return nil, qrerror.Newf(qrerror.InvalidArgument, "minVersion %v exceeds maxVersion %v", opts.MinVersion.Value(), opts.MaxVersion.Value())
	}
	cs := opts.Charset
	if cs == (charset.Charset{}) {
		cs = charset.ISO88591
	}

	b := &Builder{
		ecl:         opts.Ecl,
		cs:          cs,
		minVersion:  opts.MinVersion,
		maxVersion:  opts.MaxVersion,
		ver:         opts.MinVersion,
		reserveBits: opts.ReserveBits,
	}
	b.dataBitCounter = opts.ReserveBits
	b.dataBitCapacity = qrcodegen.NumDataCodewords(b.ver, b.ecl) * 8
	if b.dataBitCounter > b.dataBitCapacity {
		if !b.growVersion() {
			return nil, qrerror.New(qrerror.CapacityExceeded, "reserved header bits do not fit even at maxVersion")
		}
	}
	return b, nil
}

// ClassifyRune picks the most compact mode that can represent rune c, by
// compactness ordering: Numeric > Alphanumeric > Kanji > Byte.
func ClassifyRune(c rune) qrsegmentmode.Mode {
	switch {
	case c >= '0' && c <= '9':
		return qrsegmentmode.Numeric
	case qrsegment.IsAlphanumeric([]rune{c}):
		return qrsegmentmode.Alphanumeric
	case qrsegment.IsKanji(c):
		return qrsegmentmode.Kanji
	default:
		return qrsegmentmode.Byte
	}
}

// TryAppend attempts to add rune c to the symbol being built. It returns
// ok=false (with a nil error) if c cannot be made to fit even after
// escalating to maxVersion — a legitimate "this symbol is full" signal
// that callers (e.g. structured-append orchestration) use to start a new
// symbol, not a hard error. A non-nil error indicates c itself is invalid
// (unencodable in the configured byte-mode charset).
//
// On success it also returns the mode c actually landed in and the exact
// bytes it contributes to the wire (1 ASCII byte for numeric/alphanumeric,
// 2 Shift-JIS bytes for Kanji, or the configured charset's encoding for
// byte mode), so callers tracking a structured-append parity byte don't
// need to duplicate the classification/locality logic.
func (b *Builder) TryAppend(c rune) (ok bool, mode qrsegmentmode.Mode, wireBytes []byte, err error) {
	mode = ClassifyRune(c)

	// locality: keep accumulating in the currently open segment's mode
	// whenever it still accepts c, even if a more compact mode would
	// technically fit this one character better.
	if len(b.segs) > 0 {
		cur := &b.segs[len(b.segs)-1]
		if b.modeStillAccepts(cur.mode, c) {
			mode = cur.mode
		}
	}

	added, wireBytes, err := b.costAndBytesOfAppend(mode, c)
	if err != nil {
		return false, mode, nil, err
	}

	opensNewSegment := len(b.segs) == 0 || b.segs[len(b.segs)-1].mode != mode
	var headerDelta uint
	if opensNewSegment {
		headerDelta = headerBits(mode, b.ver)
	}

	for {
		if b.dataBitCounter+added+headerDelta <= b.dataBitCapacity {
			break
		}
		if !b.growVersion() {
			return false, mode, nil, nil
		}
		// NumCharCountBits and thus headerBits may change across a version
		// band boundary; recompute cost deltas no longer depend on ver
		// (cost formulas are version-independent), but the header does.
		if opensNewSegment {
			headerDelta = headerBits(mode, b.ver)
		}
	}

	if opensNewSegment {
		b.segs = append(b.segs, openSegment{mode: mode})
		b.segModeCount[mode]++
		b.dataBitCounter += headerDelta
	}
	cur := &b.segs[len(b.segs)-1]
	switch mode {
	case qrsegmentmode.Byte:
		cur.bytes = append(cur.bytes, wireBytes...)
	default:
		cur.runes = append(cur.runes, c)
	}
	b.dataBitCounter += added
	return true, mode, wireBytes, nil
}

// modeStillAccepts reports whether c can continue accumulating in mode
// without switching segments (mirrors qrsegment.MakeSegments' rule, with
// Kanji added).
func (b *Builder) modeStillAccepts(mode qrsegmentmode.Mode, c rune) bool {
	switch mode {
	case qrsegmentmode.Numeric:
		return c >= '0' && c <= '9'
	case qrsegmentmode.Alphanumeric:
		return qrsegment.IsAlphanumeric([]rune{c})
	case qrsegmentmode.Kanji:
		return qrsegment.IsKanji(c)
	case qrsegmentmode.Byte:
		_, err := b.cs.EncodeRune(c)
		return err == nil
	default:
		return false
	}
}

// costAndBytesOfAppend returns the marginal number of payload bits
// appending c to an open (or new) segment of the given mode would add,
// computed as cost(n+1)-cost(n) rather than incremental bit-packing
// (simpler for numeric's group-of-3 packing), plus the wire bytes c
// contributes (used for structured-append parity tracking).
func (b *Builder) costAndBytesOfAppend(mode qrsegmentmode.Mode, c rune) (uint, []byte, error) {
	var n uint
	if len(b.segs) > 0 && b.segs[len(b.segs)-1].mode == mode {
		n = b.segs[len(b.segs)-1].numChars()
	}
	switch mode {
	case qrsegmentmode.Numeric:
		return costNumeric(n+1) - costNumeric(n), []byte{byte(c)}, nil
	case qrsegmentmode.Alphanumeric:
		return costAlphanumeric(n+1) - costAlphanumeric(n), []byte{byte(c)}, nil
	case qrsegmentmode.Kanji:
		_, sjis, ok := charset.ShiftJISBytes(c)
		if !ok {
			return 0, nil, qrerror.Newf(qrerror.EncodingFailed, "character %q is not encodable in kanji mode", c)
		}
		return costKanji(n+1) - costKanji(n), sjis[:], nil
	case qrsegmentmode.Byte:
		enc, err := b.cs.EncodeRune(c)
		if err != nil {
			return 0, nil, qrerror.Wrap(qrerror.EncodingFailed, err, "character not representable in "+b.cs.Name())
		}
		nBytes := uint(len(enc))
		if len(b.segs) > 0 && b.segs[len(b.segs)-1].mode == mode {
			nBytes += uint(len(b.segs[len(b.segs)-1].bytes))
		}
		return costByte(nBytes) - costByte(nBytes-uint(len(enc))), enc, nil
	default:
		panic("unreachable mode")
	}
}

// growVersion bumps ver to the next version number (if any remain below
// maxVersion) and recomputes dataBitCapacity and dataBitCounter for the
// new version's character-count-indicator widths: crossing a
// [1-9]/[10-26]/[27-40] boundary changes every open segment's header
// width, so the whole counter must be recomputed from segModeCount.
func (b *Builder) growVersion() bool {
	if b.ver >= b.maxVersion {
		return false
	}
	b.ver = version.New(b.ver.Value() + 1)
	b.dataBitCapacity = qrcodegen.NumDataCodewords(b.ver, b.ecl) * 8

	counter := b.reserveBits
	for mode := qrsegmentmode.Mode(0); mode < 5; mode++ {
		if b.segModeCount[mode] == 0 {
			continue
		}
		counter += b.segModeCount[mode] * headerBits(mode, b.ver)
	}
	for _, seg := range b.segs {
		switch seg.mode {
		case qrsegmentmode.Numeric:
			counter += costNumeric(uint(len(seg.runes)))
		case qrsegmentmode.Alphanumeric:
			counter += costAlphanumeric(uint(len(seg.runes)))
		case qrsegmentmode.Kanji:
			counter += costKanji(uint(len(seg.runes)))
		case qrsegmentmode.Byte:
			counter += costByte(uint(len(seg.bytes)))
		}
	}
	b.dataBitCounter = counter
	return true
}

// headerBits returns the mode indicator plus character-count indicator
// width for a segment of the given mode at the given version.
func headerBits(mode qrsegmentmode.Mode, ver version.Version) uint {
	return 4 + uint(mode.NumCharCountBits(ver))
}

func costNumeric(n uint) uint {
	rem := n % 3
	extra := [3]uint{0, 4, 7}[rem]
	return 10*(n/3) + extra
}

func costAlphanumeric(n uint) uint {
	return 11*(n/2) + (n%2)*6
}

func costByte(nBytes uint) uint {
	return 8 * nBytes
}

func costKanji(n uint) uint {
	return 13 * n
}

// Version returns the current minimal version the builder has escalated
// to so far.
func (b *Builder) Version() version.Version { return b.ver }

// Clone returns a deep copy, so callers can stage speculative appends
// (e.g. a whole structured-append call) and discard the clone on failure
// without disturbing the original.
func (b *Builder) Clone() *Builder {
	c := *b
	c.segs = make([]openSegment, len(b.segs))
	for i, s := range b.segs {
		c.segs[i] = openSegment{
			mode:  s.mode,
			runes: append([]rune(nil), s.runes...),
			bytes: append([]byte(nil), s.bytes...),
		}
	}
	return &c
}

// Seal builds the final data codewords and QR Code for everything
// appended so far, using prefixBits (e.g. a structured-append header,
// may be empty) ahead of the segment stream. m may be nil to let
// qrcodegen pick the lowest-penalty mask.
func (b *Builder) Seal(prefixBits qrsegment.BitBuffer, ecl qrcodeecc.QrCodeEcc, m *mask.Mask) (*qrcodegen.QrCode, error) {
	segs, err := b.sealSegments()
	if err != nil {
		return nil, err
	}
	datacodewords, err := qrcodegen.AssembleDataCodewords(prefixBits, segs, b.ver, ecl)
	if err != nil {
		return nil, err
	}
	return qrcodegen.EncodeCodewords(b.ver, ecl, datacodewords, m), nil
}

// sealSegments converts every accumulated openSegment into a finished
// qrsegment.Segment via the mode encoders in package qrsegment.
func (b *Builder) sealSegments() ([]qrsegment.Segment, error) {
	segs := make([]qrsegment.Segment, 0, len(b.segs))
	for _, s := range b.segs {
		switch s.mode {
		case qrsegmentmode.Numeric:
			segs = append(segs, qrsegment.MakeNumeric(s.runes))
		case qrsegmentmode.Alphanumeric:
			segs = append(segs, qrsegment.MakeAlphanumeric(s.runes))
		case qrsegmentmode.Kanji:
			seg, err := qrsegment.MakeKanji(s.runes)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case qrsegmentmode.Byte:
			segs = append(segs, qrsegment.MakeBytes(s.bytes))
		}
	}
	return segs, nil
}

// Empty reports whether no characters have been appended yet.
func (b *Builder) Empty() bool { return len(b.segs) == 0 }
