package program

import (
	"fmt"
	"io"
	"math/big"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

const fieldSize = fr.Limbs * 8

// fieldSpareBits is the number of high bits of the trailing (most
// significant) byte a reduced field element never sets.
var fieldSpareBits = fieldSize*8 - FieldBits

// Field is an element of the scalar field, encoded as 32 little-endian
// bytes in both modes.
type Field struct {
	e fr.Element
}

// NewField returns v as a field element.
func NewField(v uint64) Field {
	var f Field
	f.e.SetUint64(v)
	return f
}

// FieldFromBig returns v as a field element. v must be in [0, modulus).
func FieldFromBig(v *big.Int) (Field, error) {
	if v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return Field{}, fmt.Errorf("%w: %s is not a reduced field element", grammar.ErrBounds, v)
	}
	var f Field
	f.e.SetBigInt(v)
	return f, nil
}

// Big returns the value of f in [0, modulus).
func (f Field) Big() *big.Int {
	return f.e.ToBigIntRegular(new(big.Int))
}

func (f Field) Add(g Field) Field {
	var out Field
	out.e.Add(&f.e, &g.e)
	return out
}

func (f Field) Neg() Field {
	var out Field
	out.e.Neg(&f.e)
	return out
}

func (f Field) Equal(g Field) bool { return f.e.Equal(&g.e) }

// ParseField consumes a field literal: an optional "-", a digit sequence,
// and the "field" suffix. A negative literal denotes the additive inverse.
func ParseField(input string) (string, Field, error) {
	rest := input
	negate := false
	if r, _, err := grammar.Tag("-")(rest); err == nil {
		rest, negate = r, true
	}
	rest, digits, err := grammar.DigitSeq(rest)
	if err != nil {
		return input, Field{}, err
	}
	rest, _, err = grammar.Tag("field")(rest)
	if err != nil {
		return input, Field{}, err
	}
	v, _ := new(big.Int).SetString(grammar.StripSeparators(digits), 10)
	f, err := FieldFromBig(v)
	if err != nil {
		return input, Field{}, grammar.OutOfBounds(input, "%s exceeds the field modulus", grammar.StripSeparators(digits))
	}
	if negate {
		f = f.Neg()
	}
	return rest, f, nil
}

// FieldFromString parses s as exactly one field literal.
func FieldFromString(s string) (Field, error) {
	return grammar.Complete[Field](ParseField, s)
}

func (f Field) String() string {
	return f.Big().String() + "field"
}

// Check always succeeds: a Field holds a reduced element, and decoding
// rejects non-canonical encodings outright.
func (f Field) Check() error { return nil }

func (f Field) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	b := f.e.BytesLE()
	return serialize.Write(w, b[:])
}

func (f Field) SerializedSize(c serialize.Compress) int { return fieldSize }

func (f *Field) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	b, err := serialize.ReadBytes(r, fieldSize)
	if err != nil {
		return err
	}
	return f.setCanonical(b)
}

// setCanonical consumes b.
func (f *Field) setCanonical(b []byte) error {
	var e fr.Element
	if _, err := e.SetBytesLECanonical(b); err != nil {
		return fmt.Errorf("%w: field element %w", serialize.ErrInvalidData, err)
	}
	f.e = e
	return nil
}

func (f Field) SerializeWithFlags(w io.Writer, flags serialize.Flags) error {
	b := f.e.BytesLE()
	return serialize.WriteWithFlags(w, b[:], fieldSpareBits, flags)
}

func (f Field) SerializedSizeWithFlags(flags serialize.Flags) int {
	return serialize.SizeWithFlags(fieldSize, fieldSpareBits, flags.BitSize())
}

func (f *Field) DecodeWithFlags(r io.Reader, p serialize.FlagParser) (serialize.Flags, error) {
	b, flags, err := serialize.ReadWithFlags(r, fieldSize, fieldSpareBits, p)
	if err != nil {
		return nil, err
	}
	if err := f.setCanonical(b); err != nil {
		return nil, err
	}
	return flags, nil
}
