package program

import (
	"fmt"
	"io"

	"github.com/chazu/quill/serialize"
)

// LiteralType names a primitive value type.
type LiteralType uint8

const (
	LiteralAddress LiteralType = iota
	LiteralBoolean
	LiteralField
	LiteralGroup
	LiteralI8
	LiteralI16
	LiteralI32
	LiteralI64
	LiteralI128
	LiteralU8
	LiteralU16
	LiteralU32
	LiteralU64
	LiteralU128
	LiteralScalar
	LiteralSignature
	LiteralString

	numLiteralTypes
)

var literalTypeNames = [numLiteralTypes]string{
	LiteralAddress:   "address",
	LiteralBoolean:   "boolean",
	LiteralField:     "field",
	LiteralGroup:     "group",
	LiteralI8:        "i8",
	LiteralI16:       "i16",
	LiteralI32:       "i32",
	LiteralI64:       "i64",
	LiteralI128:      "i128",
	LiteralU8:        "u8",
	LiteralU16:       "u16",
	LiteralU32:       "u32",
	LiteralU64:       "u64",
	LiteralU128:      "u128",
	LiteralScalar:    "scalar",
	LiteralSignature: "signature",
	LiteralString:    "string",
}

// LiteralTypeByName returns the literal type spelled name.
func LiteralTypeByName(name string) (LiteralType, bool) {
	for i, n := range literalTypeNames {
		if n == name {
			return LiteralType(i), true
		}
	}
	return 0, false
}

func (t LiteralType) String() string {
	if t >= numLiteralTypes {
		return fmt.Sprintf("LiteralType(%d)", uint8(t))
	}
	return literalTypeNames[t]
}

func (t LiteralType) Check() error {
	if t >= numLiteralTypes {
		return fmt.Errorf("%w: unknown literal type %d", serialize.ErrValidation, uint8(t))
	}
	return nil
}

func (t LiteralType) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	return serialize.WriteU8(w, uint8(t))
}

func (t LiteralType) SerializedSize(c serialize.Compress) int { return 1 }

func (t *LiteralType) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	b, err := serialize.ReadU8(r)
	if err != nil {
		return err
	}
	if LiteralType(b) >= numLiteralTypes {
		return fmt.Errorf("%w: literal type tag %d", serialize.ErrInvalidData, b)
	}
	*t = LiteralType(b)
	return nil
}
