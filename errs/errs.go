// Package errs collects the sentinel errors shared across the codec
// packages, so callers can test error kinds with errors.Is instead of
// string matching.
package errs

import "errors"

// Malformed input errors: magic mismatch, truncation, unknown required tag,
// count mismatch, out-of-range index (§7 "Malformed").
var (
	ErrMalformedMagic  = errors.New("malformed: bad magic number")
	ErrTruncated       = errors.New("malformed: truncated input")
	ErrUnknownTag      = errors.New("malformed: unknown required tag")
	ErrCountMismatch   = errors.New("malformed: section count mismatch")
	ErrIndexOutOfRange = errors.New("malformed: index out of range")
	ErrMissingField    = errors.New("malformed: missing required field")
	ErrEmptyGradient   = errors.New("malformed: gradient has no stops")
	ErrInvalidField    = errors.New("malformed: field has wrong size or shape")
)

// Unsupported errors: more than 255 of any kind, or a coordinate outside
// the encoder's representable range (§7 "Unsupported").
var (
	ErrTooManyItems    = errors.New("unsupported: more than 255 items")
	ErrCoordOutOfRange = errors.New("unsupported: coordinate not representable")
)

// ErrOutOfMemory signals a buffer growth failure (§7 "OutOfMemory").
var ErrOutOfMemory = errors.New("out of memory: buffer growth failed")
