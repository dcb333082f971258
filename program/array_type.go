package program

import (
	"fmt"
	"io"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/serialize"
)

// ArrayType is a fixed-length array of one element type.
//
// The length is at least one and at most the network's MaxArrayEntries.
// Values are only built by NewArrayType, the parser, or the decoder, all of
// which enforce those bounds.
type ArrayType struct {
	elementType ElementType
	length      U32
}

// NewArrayType validates length against p and returns the array type.
func NewArrayType(p network.Params, elementType ElementType, length U32) (ArrayType, error) {
	if length == 0 {
		return ArrayType{}, fmt.Errorf("%w: the array must have at least one element", grammar.ErrBounds)
	}
	if uint32(length) > p.MaxArrayEntries {
		return ArrayType{}, fmt.Errorf("%w: the array must have at most %d elements", grammar.ErrBounds, p.MaxArrayEntries)
	}
	return ArrayType{elementType: elementType, length: length}, nil
}

func (a ArrayType) ElementType() ElementType { return a.elementType }

func (a ArrayType) Length() U32 { return a.length }

// ArrayTypeParser returns a parser for "[<element-type>; <length>]" whose
// lengths are bounded by p.
func ArrayTypeParser(p network.Params) grammar.Parser[ArrayType] {
	return func(input string) (string, ArrayType, error) {
		rest, _, err := grammar.Tag("[")(input)
		if err != nil {
			return input, ArrayType{}, err
		}
		rest, elementType, err := ParseElementType(rest)
		if err != nil {
			return input, ArrayType{}, err
		}
		rest, _, err = grammar.Tag("; ")(rest)
		if err != nil {
			return input, ArrayType{}, err
		}
		rest, length, err := ParseU32(rest)
		if err != nil {
			return input, ArrayType{}, err
		}
		rest, _, err = grammar.Tag("]")(rest)
		if err != nil {
			return input, ArrayType{}, err
		}
		a, err := NewArrayType(p, elementType, length)
		if err != nil {
			return input, ArrayType{}, err
		}
		return rest, a, nil
	}
}

// ArrayTypeFromString parses s as exactly one array type.
func ArrayTypeFromString(p network.Params, s string) (ArrayType, error) {
	return grammar.Complete(ArrayTypeParser(p), s)
}

func (a ArrayType) String() string {
	return fmt.Sprintf("[%s; %s]", a.elementType, a.length)
}

// Check verifies the parts of the invariant that do not depend on the
// network. The upper bound is enforced by NewArrayType and the decoder.
func (a ArrayType) Check() error {
	if a.length == 0 {
		return fmt.Errorf("%w: array type with zero length", serialize.ErrValidation)
	}
	return serialize.CheckFields(a.elementType, a.length)
}

func (a ArrayType) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	return serialize.WriteFields(w, c, a.elementType, a.length)
}

func (a ArrayType) SerializedSize(c serialize.Compress) int {
	return serialize.FieldsSize(c, a.elementType, a.length)
}

// ArrayTypeDecoder returns a decoder that rebuilds array types through
// NewArrayType, so an out-of-range length is rejected regardless of the
// validation mode.
func ArrayTypeDecoder(p network.Params) serialize.DecodeFunc[ArrayType] {
	return func(r io.Reader, c serialize.Compress, v serialize.Validate) (ArrayType, error) {
		var elementType ElementType
		if err := elementType.DecodeCanonical(r, c); err != nil {
			return ArrayType{}, err
		}
		var length U32
		if err := length.DecodeCanonical(r, c); err != nil {
			return ArrayType{}, err
		}
		a, err := NewArrayType(p, elementType, length)
		if err != nil {
			return ArrayType{}, fmt.Errorf("%w: %w", serialize.ErrInvalidData, err)
		}
		if v == serialize.ValidateYes {
			if err := a.Check(); err != nil {
				return ArrayType{}, err
			}
		}
		return a, nil
	}
}
