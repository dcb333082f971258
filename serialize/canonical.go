package serialize

import (
	"bytes"
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Valid
// ---------------------------------------------------------------------------

// Valid is implemented by values that can verify their own integrity after
// construction or decoding.
type Valid interface {
	Check() error
}

// BatchCheck checks items in order and returns the first failure.
func BatchCheck[V Valid](items []V) error {
	for _, item := range items {
		if err := item.Check(); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// CanonicalSerialize writes a value's canonical encoding.
//
// SerializedSize must equal the number of bytes SerializeWithMode writes for
// the same mode; callers size buffers from it.
type CanonicalSerialize interface {
	SerializeWithMode(w io.Writer, c Compress) error
	SerializedSize(c Compress) int
}

func SerializeCompressed(v CanonicalSerialize, w io.Writer) error {
	return v.SerializeWithMode(w, CompressYes)
}

func SerializeUncompressed(v CanonicalSerialize, w io.Writer) error {
	return v.SerializeWithMode(w, CompressNo)
}

func CompressedSize(v CanonicalSerialize) int {
	return v.SerializedSize(CompressYes)
}

func UncompressedSize(v CanonicalSerialize) int {
	return v.SerializedSize(CompressNo)
}

// ToBytes encodes v into a buffer pre-sized from SerializedSize and fails
// with ErrSizeMismatch if the encoder wrote a different number of bytes.
func ToBytes(v CanonicalSerialize, c Compress) ([]byte, error) {
	size := v.SerializedSize(c)
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := v.SerializeWithMode(buf, c); err != nil {
		return nil, err
	}
	if buf.Len() != size {
		return nil, fmt.Errorf("%w: %T wrote %d bytes in %v mode, reported %d", ErrSizeMismatch, v, buf.Len(), c, size)
	}
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Deserialization
// ---------------------------------------------------------------------------

// CanonicalDeserialize reads a value's canonical encoding into the receiver.
//
// DecodeCanonical performs only the structural decoding needed to rebuild
// the value; it does not call Check. Use DeserializeWithMode or one of its
// shorthands, which run Check when validation is requested.
type CanonicalDeserialize interface {
	Valid
	DecodeCanonical(r io.Reader, c Compress) error
}

// DeserializeWithMode decodes a T and, under ValidateYes, checks it. A
// failed decode returns the zero T.
func DeserializeWithMode[T any, PT interface {
	*T
	CanonicalDeserialize
}](r io.Reader, c Compress, v Validate) (T, error) {
	var out, zero T
	if err := PT(&out).DecodeCanonical(r, c); err != nil {
		return zero, err
	}
	if v == ValidateYes {
		if err := PT(&out).Check(); err != nil {
			return zero, err
		}
	}
	return out, nil
}

func DeserializeCompressed[T any, PT interface {
	*T
	CanonicalDeserialize
}](r io.Reader) (T, error) {
	return DeserializeWithMode[T, PT](r, CompressYes, ValidateYes)
}

func DeserializeCompressedUnchecked[T any, PT interface {
	*T
	CanonicalDeserialize
}](r io.Reader) (T, error) {
	return DeserializeWithMode[T, PT](r, CompressYes, ValidateNo)
}

func DeserializeUncompressed[T any, PT interface {
	*T
	CanonicalDeserialize
}](r io.Reader) (T, error) {
	return DeserializeWithMode[T, PT](r, CompressNo, ValidateYes)
}

func DeserializeUncompressedUnchecked[T any, PT interface {
	*T
	CanonicalDeserialize
}](r io.Reader) (T, error) {
	return DeserializeWithMode[T, PT](r, CompressNo, ValidateNo)
}

// FromBytes decodes a T from data, rejecting trailing bytes.
func FromBytes[T any, PT interface {
	*T
	CanonicalDeserialize
}](data []byte, c Compress, v Validate) (T, error) {
	return Decoder[T, PT]().FromBytes(data, c, v)
}

// ---------------------------------------------------------------------------
// DecodeFunc
// ---------------------------------------------------------------------------

// DecodeFunc decodes a T in the given modes. Types whose decoding depends on
// parameters other than the byte stream expose a DecodeFunc bound to those
// parameters.
type DecodeFunc[T any] func(r io.Reader, c Compress, v Validate) (T, error)

// Decoder returns the DecodeFunc of a type that implements
// CanonicalDeserialize.
func Decoder[T any, PT interface {
	*T
	CanonicalDeserialize
}]() DecodeFunc[T] {
	return DeserializeWithMode[T, PT]
}

func (d DecodeFunc[T]) DeserializeCompressed(r io.Reader) (T, error) {
	return d(r, CompressYes, ValidateYes)
}

func (d DecodeFunc[T]) DeserializeCompressedUnchecked(r io.Reader) (T, error) {
	return d(r, CompressYes, ValidateNo)
}

func (d DecodeFunc[T]) DeserializeUncompressed(r io.Reader) (T, error) {
	return d(r, CompressNo, ValidateYes)
}

func (d DecodeFunc[T]) DeserializeUncompressedUnchecked(r io.Reader) (T, error) {
	return d(r, CompressNo, ValidateNo)
}

// FromBytes decodes a T from data, rejecting trailing bytes.
func (d DecodeFunc[T]) FromBytes(data []byte, c Compress, v Validate) (T, error) {
	var zero T
	r := bytes.NewReader(data)
	out, err := d(r, c, v)
	if err != nil {
		return zero, err
	}
	if r.Len() != 0 {
		return zero, fmt.Errorf("%w: %d trailing bytes", ErrInvalidData, r.Len())
	}
	return out, nil
}
