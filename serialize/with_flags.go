package serialize

import (
	"bytes"
	"fmt"
	"io"
)

// CanonicalSerializeWithFlags writes a value and a Flags together.
type CanonicalSerializeWithFlags interface {
	CanonicalSerialize
	SerializeWithFlags(w io.Writer, f Flags) error
	SerializedSizeWithFlags(f Flags) int
}

// CanonicalDeserializeWithFlags reads a value and the flags stored with it.
// Like DecodeCanonical, it does not call Check.
type CanonicalDeserializeWithFlags interface {
	Valid
	DecodeWithFlags(r io.Reader, p FlagParser) (Flags, error)
}

// DeserializeWithFlags decodes and checks a T along with flags of kind F.
func DeserializeWithFlags[T any, PT interface {
	*T
	CanonicalDeserializeWithFlags
}, F Flags](r io.Reader, kind FlagKind[F]) (T, F, error) {
	var out, zero T
	var zf F
	got, err := PT(&out).DecodeWithFlags(r, kind)
	if err != nil {
		return zero, zf, err
	}
	f, ok := got.(F)
	if !ok {
		return zero, zf, fmt.Errorf("%w: decoded %T, want %T", ErrUnknownFlags, got, zf)
	}
	if err := PT(&out).Check(); err != nil {
		return zero, zf, err
	}
	return out, f, nil
}

// ToBytesWithFlags is ToBytes for a value carrying flags.
func ToBytesWithFlags(v CanonicalSerializeWithFlags, f Flags) ([]byte, error) {
	size := v.SerializedSizeWithFlags(f)
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := v.SerializeWithFlags(buf, f); err != nil {
		return nil, err
	}
	if buf.Len() != size {
		return nil, fmt.Errorf("%w: %T wrote %d bytes with %d flag bits, reported %d", ErrSizeMismatch, v, buf.Len(), f.BitSize(), size)
	}
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Trailing-byte layout
//
// A payload whose trailing byte leaves spareBits high bits unused stores
// flags of up to spareBits bits in place. Wider flags go in one extra byte
// appended after the payload, top-aligned, with the remaining bits zero.
// ---------------------------------------------------------------------------

// SizeWithFlags returns the encoded length of a payload of payloadLen bytes
// carrying flags of bitSize bits.
func SizeWithFlags(payloadLen, spareBits, bitSize int) int {
	if bitSize <= spareBits {
		return payloadLen
	}
	return payloadLen + 1
}

// WriteWithFlags writes payload with f packed per the trailing-byte layout.
func WriteWithFlags(w io.Writer, payload []byte, spareBits int, f Flags) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload cannot carry flags", ErrInvalidData)
	}
	last := payload[len(payload)-1]
	if last&topMask(spareBits) != 0 {
		return fmt.Errorf("%w: payload uses its spare bits (trailing byte %08b)", ErrInvalidData, last)
	}
	buf := make([]byte, len(payload), len(payload)+1)
	copy(buf, payload)
	if f.BitSize() <= spareBits {
		buf[len(buf)-1] |= f.U8Bitmask()
	} else {
		buf = append(buf, f.U8Bitmask())
	}
	return Write(w, buf)
}

// ReadWithFlags reads a payload of payloadLen bytes and the flags packed
// with it. The returned payload has the flag bits cleared.
func ReadWithFlags(r io.Reader, payloadLen, spareBits int, p FlagParser) ([]byte, Flags, error) {
	extra := p.BitSize() > spareBits
	n := payloadLen
	if extra {
		n++
	}
	if n == 0 {
		return nil, nil, fmt.Errorf("%w: empty payload cannot carry flags", ErrInvalidData)
	}
	buf, err := ReadBytes(r, n)
	if err != nil {
		return nil, nil, err
	}
	trailing := buf[n-1]
	f, ok := p.removeFlags(&buf[n-1])
	if !ok {
		return nil, nil, fmt.Errorf("%w: trailing byte %08b", ErrUnknownFlags, trailing)
	}
	if extra {
		if buf[n-1] != 0 {
			return nil, nil, fmt.Errorf("%w: flag byte %08b has bits below the flags", ErrInvalidData, buf[n-1])
		}
		buf = buf[:payloadLen]
	}
	return buf, f, nil
}
