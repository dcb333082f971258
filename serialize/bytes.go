package serialize

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ---------------------------------------------------------------------------
// Little-endian primitives
// ---------------------------------------------------------------------------

// Write writes p in full, wrapping failures as serialization errors.
func Write(w io.Writer, p []byte) error {
	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("%w: write: %w", ErrSerialization, err)
	}
	return nil
}

func WriteU8(w io.Writer, v uint8) error {
	return Write(w, []byte{v})
}

func WriteU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return Write(w, b[:])
}

func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return Write(w, b[:])
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: need %d", ErrNotEnoughBytes, n)
		}
		return nil, fmt.Errorf("%w: read: %w", ErrSerialization, err)
	}
	return buf, nil
}

func ReadU8(r io.Reader) (uint8, error) {
	b, err := ReadBytes(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadU16(r io.Reader) (uint16, error) {
	b, err := ReadBytes(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func ReadU32(r io.Reader) (uint32, error) {
	b, err := ReadBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ---------------------------------------------------------------------------
// Composite values
// ---------------------------------------------------------------------------

// WriteFields serializes each field in order. A composite value's encoding
// is the concatenation of its fields' encodings.
func WriteFields(w io.Writer, c Compress, fields ...CanonicalSerialize) error {
	for _, f := range fields {
		if err := f.SerializeWithMode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// FieldsSize is the sum of the fields' serialized sizes.
func FieldsSize(c Compress, fields ...CanonicalSerialize) int {
	n := 0
	for _, f := range fields {
		n += f.SerializedSize(c)
	}
	return n
}

// CheckFields checks each field in order and returns the first failure.
func CheckFields(fields ...Valid) error {
	return BatchCheck(fields)
}
