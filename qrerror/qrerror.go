// Package qrerror defines the typed error kinds surfaced across the
// qrcodegen module boundary: InvalidArgument, CapacityExceeded,
// EncodingFailed, and IoError.
package qrerror

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind identifies which of the four error categories an error belongs to.
type Kind string

const (
	// InvalidArgument covers malformed constructor/method arguments:
	// module size < 1, unrecognized colour strings, unknown charsets,
	// version numbers outside [1, 40].
	InvalidArgument Kind = "InvalidArgument"
	// CapacityExceeded covers input that does not fit under the given
	// constraints: max version reached with structured append disallowed,
	// or structured append would require more than 16 symbols.
	CapacityExceeded Kind = "CapacityExceeded"
	// EncodingFailed covers a character that cannot be represented in the
	// configured byte-mode charset.
	EncodingFailed Kind = "EncodingFailed"
	// IoError covers failures from save_* calls, propagated verbatim.
	IoError Kind = "IoError"
)

// qrError pairs a Kind with an underlying cause so callers can both test
// the kind (via Is) and unwrap to the original error (via errors.Cause).
type qrError struct {
	kind Kind
	err  error
}

func (e *qrError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err.Error())
}

func (e *qrError) Cause() error { return e.err }

func (e *qrError) Unwrap() error { return e.err }

// New creates an error of the given kind with the given message.
func New(kind Kind, msg string) error {
	return &qrError{kind: kind, err: pkgerrors.New(msg)}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &qrError{kind: kind, err: pkgerrors.Errorf(format, args...)}
}

// Wrap annotates err with msg and tags it with the given kind. If err is
// nil, Wrap returns nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &qrError{kind: kind, err: pkgerrors.Wrap(err, msg)}
}

// Is reports whether err (or something it wraps) was constructed with the
// given Kind.
func Is(err error, kind Kind) bool {
	var qe *qrError
	for err != nil {
		if q, ok := err.(*qrError); ok {
			qe = q
			break
		}
		err = errors.Unwrap(err)
	}
	return qe != nil && qe.kind == kind
}

// KindOf returns the Kind tagging err, and false if err was not constructed
// by this package.
func KindOf(err error) (Kind, bool) {
	var qe *qrError
	for e := err; e != nil; e = errors.Unwrap(e) {
		if q, ok := e.(*qrError); ok {
			qe = q
			break
		}
	}
	if qe == nil {
		return "", false
	}
	return qe.kind, true
}
