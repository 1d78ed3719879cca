// Package structuredappend implements multi-symbol orchestration: a
// Symbols collection accepts one logical input string and, when it would
// overflow a single symbol's capacity at the configured maximum version,
// seals the current symbol and continues into a new one, up to the
// standard's 16-symbol limit. It also tracks the running parity byte that
// structured-append headers carry.
package structuredappend

import (
	"github.com/qrforge/qrcodegen"
	"github.com/qrforge/qrcodegen/charset"
	"github.com/qrforge/qrcodegen/dib"
	"github.com/qrforge/qrcodegen/qrcodeecc"
	"github.com/qrforge/qrcodegen/qrerror"
	"github.com/qrforge/qrcodegen/qrsegment"
	"github.com/qrforge/qrcodegen/symbolbuilder"
	"github.com/qrforge/qrcodegen/version"
)

// maxSymbols is the standard's structured-append ceiling: positions 0..15.
const maxSymbols = 16

// headerBits is the fixed width of the structured-append header (mode
// indicator 4b, position 4b, total-1 4b, parity 8b).
const headerBits = 20

// Options configures a Symbols collection; pass it to New. Zero-valued
// version and charset fields take the defaults noted beside them, and the
// zero Ecl is qrcodeecc.Low.
type Options struct {
	Ecl                   qrcodeecc.QrCodeEcc
	MinVersion            version.Version // defaults to version.Min
	MaxVersion            version.Version // defaults to version.Max
	AllowStructuredAppend bool
	Charset               charset.Charset // defaults to charset.ISO88591
}

// Symbols is an ordered collection of one or more QR Code symbols carrying
// a single logical input, split via structured append when necessary.
type Symbols struct {
	opts    Options
	sealed  []*symbolbuilder.Builder // one per finished symbol, not yet rendered to codewords
	current *symbolbuilder.Builder
	parity  byte
	final   []*Symbol // populated by Finalize
}

// New creates an empty Symbols collection for the given options. Returns a
// qrerror.InvalidArgument error if MinVersion or MaxVersion exceeds
// version.Max, or if MinVersion exceeds MaxVersion.
func New(opts Options) (*Symbols, error) {
	if opts.MinVersion == 0 {
		opts.MinVersion = version.Min
	}
	if opts.MaxVersion == 0 {
		opts.MaxVersion = version.Max
	}
	if opts.MinVersion > version.Max || opts.MaxVersion > version.Max {
		return nil, qrerror.Newf(qrerror.InvalidArgument, "version range [%v, %v] outside [%v, %v]",
			opts.MinVersion.Value(), opts.MaxVersion.Value(), version.Min.Value(), version.Max.Value())
	}
	if opts.Charset == (charset.Charset{}) {
		opts.Charset = charset.ISO88591
	}
	s := &Symbols{opts: opts}
	var err error
	s.current, err = s.newBuilder()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Symbols) newBuilder() (*symbolbuilder.Builder, error) {
	reserve := uint(0)
	if s.opts.AllowStructuredAppend {
		reserve = headerBits
	}
	return symbolbuilder.NewBuilder(symbolbuilder.Options{
		Ecl:         s.opts.Ecl,
		Charset:     s.opts.Charset,
		MinVersion:  s.opts.MinVersion,
		MaxVersion:  s.opts.MaxVersion,
		ReserveBits: reserve,
	})
}

// AppendString appends text to the collection, rune by rune, opening new
// structured-append symbols as needed. The call is transactional: either
// every rune of text is committed, or none are and the collection is left
// exactly as before the call.
//
// Returns qrerror.CapacityExceeded if text does not fit even after
// splitting into the maximum 16 symbols (or, when structured append is
// disallowed, if it does not fit the single symbol at MaxVersion).
func (s *Symbols) AppendString(text string) error {
	sealed := cloneSealed(s.sealed)
	current := s.current.Clone()
	parity := s.parity

	for _, c := range text {
		ok, _, wireBytes, err := current.TryAppend(c)
		if err != nil {
			return err
		}
		if ok {
			parity = xorBytes(parity, wireBytes)
			continue
		}

		// Current symbol is full.
		if !s.opts.AllowStructuredAppend {
			return qrerror.Newf(qrerror.CapacityExceeded, "data does not fit in a single symbol up to version %v", s.opts.MaxVersion.Value())
		}
		if len(sealed)+1 >= maxSymbols {
			return qrerror.Newf(qrerror.CapacityExceeded, "data requires more than %v structured-append symbols", maxSymbols)
		}

		sealed = append(sealed, current)
		current, err = s.newBuilder()
		if err != nil {
			return err
		}
		ok, _, wireBytes, err = current.TryAppend(c)
		if err != nil {
			return err
		}
		if !ok {
			return qrerror.Newf(qrerror.CapacityExceeded, "character %q does not fit even in a fresh symbol at version %v", c, s.opts.MaxVersion.Value())
		}
		parity = xorBytes(parity, wireBytes)
	}

	s.sealed = sealed
	s.current = current
	s.parity = parity
	s.final = nil // any prior Finalize result is now stale
	return nil
}

func xorBytes(parity byte, bs []byte) byte {
	for _, b := range bs {
		parity ^= b
	}
	return parity
}

func cloneSealed(in []*symbolbuilder.Builder) []*symbolbuilder.Builder {
	out := make([]*symbolbuilder.Builder, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// Finalize seals every symbol accumulated so far into a concrete
// *qrcodegen.QrCode, back-filling each structured-append header's
// position and total-1 fields now that the final count is known. Safe
// to call multiple times; re-finalizes from current state each time.
func (s *Symbols) Finalize() error {
	builders := append(append([]*symbolbuilder.Builder(nil), s.sealed...), s.current)
	total := len(builders)

	final := make([]*Symbol, total)
	for i, b := range builders {
		var prefix qrsegment.BitBuffer
		if total >= 2 {
			prefix = make(qrsegment.BitBuffer, 0, headerBits)
			prefix.AppendBits(0b0011, 4)
			prefix.AppendBits(uint32(i), 4)
			prefix.AppendBits(uint32(total-1), 4)
			prefix.AppendBits(uint32(s.parity), 8)
		}
		qr, err := b.Seal(prefix, s.opts.Ecl, nil)
		if err != nil {
			return err
		}
		final[i] = &Symbol{qr: qr, position: i, total: total}
	}
	s.final = final
	return nil
}

// Count returns the number of finalized symbols. Call Finalize first;
// Count returns 0 if Finalize has not been called since the last
// successful AppendString. A finalized collection holds at least one
// symbol, even when nothing was appended.
func (s *Symbols) Count() int { return len(s.final) }

// Get returns the i'th finalized symbol (0-based). Returns a
// qrerror.InvalidArgument error if i is out of range or Finalize has not
// been called.
func (s *Symbols) Get(i int) (*Symbol, error) {
	if i < 0 || i >= len(s.final) {
		return nil, qrerror.Newf(qrerror.InvalidArgument, "symbol index %v out of range [0, %v)", i, len(s.final))
	}
	return s.final[i], nil
}

// Symbol is one finished QR Code symbol within a Symbols collection. It
// holds no back-pointer to its parent: everything it needs (parity,
// version ceiling, charset) was already baked in when Symbols.Finalize
// sealed it.
type Symbol struct {
	qr       *qrcodegen.QrCode
	position int
	total    int
}

// Version returns this symbol's version number.
func (sym *Symbol) Version() version.Version { return sym.qr.Version() }

// Position returns this symbol's 0-based position among its siblings.
func (sym *Symbol) Position() int { return sym.position }

// Total returns the total number of symbols in the collection this symbol
// belongs to.
func (sym *Symbol) Total() int { return sym.total }

// ModuleMatrix returns this symbol's module matrix.
func (sym *Symbol) ModuleMatrix() [][]int8 { return sym.qr.ModuleMatrixSigned() }

// Get1bppDIB renders this symbol to a monochrome BMP.
func (sym *Symbol) Get1bppDIB(moduleSize int, fore, back string) ([]byte, error) {
	return dib.Encode1bpp(sym.ModuleMatrix(), moduleSize, fore, back)
}

// Get24bppDIB renders this symbol to a 24-bit color BMP.
func (sym *Symbol) Get24bppDIB(moduleSize int, fore, back string) ([]byte, error) {
	return dib.Encode24bpp(sym.ModuleMatrix(), moduleSize, fore, back)
}

// Save1bppDIB renders and writes this symbol as a monochrome BMP to path.
func (sym *Symbol) Save1bppDIB(path string, moduleSize int, fore, back string) error {
	return dib.Save1bpp(path, sym.ModuleMatrix(), moduleSize, fore, back)
}

// Save24bppDIB renders and writes this symbol as a 24-bit color BMP to path.
func (sym *Symbol) Save24bppDIB(path string, moduleSize int, fore, back string) error {
	return dib.Save24bpp(path, sym.ModuleMatrix(), moduleSize, fore, back)
}
