// Package serialize defines the canonical binary contract for program
// values: compressed and uncompressed encodings, optional validation on
// decode, and flag bits packed into the trailing byte of a payload.
//
// Encodings are little-endian. A type implements CanonicalSerialize to
// write itself and CanonicalDeserialize to read itself back; the package
// functions derive the compressed/uncompressed and validated/unchecked
// entry points from those two methods.
package serialize

import (
	"errors"
	"fmt"
)

// Compress selects the minimal encoding or the verbatim one.
type Compress uint8

const (
	CompressYes Compress = iota
	CompressNo
)

func (c Compress) String() string {
	if c == CompressNo {
		return "uncompressed"
	}
	return "compressed"
}

// Validate selects whether Check runs after decoding.
//
// ValidateNo is for inputs whose integrity was established elsewhere.
type Validate uint8

const (
	ValidateYes Validate = iota
	ValidateNo
)

func (v Validate) String() string {
	if v == ValidateNo {
		return "unchecked"
	}
	return "validated"
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrSerialization is the root of every encode/decode failure.
	ErrSerialization = errors.New("serialization error")
	// ErrValidation is returned by Check implementations.
	ErrValidation = errors.New("validation error")

	ErrNotEnoughBytes = fmt.Errorf("%w: not enough bytes", ErrSerialization)
	ErrUnknownFlags   = fmt.Errorf("%w: unrecognized flag bits", ErrSerialization)
	ErrSizeMismatch   = fmt.Errorf("%w: serialized size disagrees with bytes written", ErrSerialization)
	ErrInvalidData    = fmt.Errorf("%w: invalid data", ErrSerialization)
)
