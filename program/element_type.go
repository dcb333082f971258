package program

import (
	"fmt"
	"io"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

// Element type wire tags.
const (
	elementTagLiteral uint8 = 0
	elementTagStruct  uint8 = 1
)

// ElementType is the type of an array's elements: a literal type or a
// named struct.
type ElementType struct {
	isStruct bool
	literal  LiteralType
	name     Identifier
}

// LiteralElement returns the element type for a literal type.
func LiteralElement(t LiteralType) ElementType {
	return ElementType{literal: t}
}

// StructElement returns the element type for the struct named id. Literal
// type names are reserved: a struct so named would display as the literal.
func StructElement(id Identifier) (ElementType, error) {
	if _, ok := LiteralTypeByName(id.name); ok {
		return ElementType{}, grammar.Fail(id.name, "%q is a reserved literal type name", id.name)
	}
	return ElementType{isStruct: true, name: id}, nil
}

// Literal returns the literal type, if e is one.
func (e ElementType) Literal() (LiteralType, bool) {
	return e.literal, !e.isStruct
}

// Struct returns the struct name, if e is one.
func (e ElementType) Struct() (Identifier, bool) {
	return e.name, e.isStruct
}

// ParseElementType consumes an element type. Words naming a literal type
// are literal types; any other identifier names a struct.
func ParseElementType(input string) (string, ElementType, error) {
	rest, id, err := ParseIdentifier(input)
	if err != nil {
		return input, ElementType{}, err
	}
	if t, ok := LiteralTypeByName(id.name); ok {
		return rest, LiteralElement(t), nil
	}
	return rest, ElementType{isStruct: true, name: id}, nil
}

func (e ElementType) String() string {
	if e.isStruct {
		return e.name.String()
	}
	return e.literal.String()
}

func (e ElementType) Check() error {
	if e.isStruct {
		if err := e.name.Check(); err != nil {
			return err
		}
		if _, ok := LiteralTypeByName(e.name.name); ok {
			return fmt.Errorf("%w: struct named after literal type %q", serialize.ErrValidation, e.name.name)
		}
		return nil
	}
	return e.literal.Check()
}

func (e ElementType) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	if e.isStruct {
		if err := serialize.WriteU8(w, elementTagStruct); err != nil {
			return err
		}
		return e.name.SerializeWithMode(w, c)
	}
	if err := serialize.WriteU8(w, elementTagLiteral); err != nil {
		return err
	}
	return e.literal.SerializeWithMode(w, c)
}

func (e ElementType) SerializedSize(c serialize.Compress) int {
	if e.isStruct {
		return 1 + e.name.SerializedSize(c)
	}
	return 1 + e.literal.SerializedSize(c)
}

func (e *ElementType) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	tag, err := serialize.ReadU8(r)
	if err != nil {
		return err
	}
	switch tag {
	case elementTagLiteral:
		var t LiteralType
		if err := t.DecodeCanonical(r, c); err != nil {
			return err
		}
		*e = LiteralElement(t)
	case elementTagStruct:
		var id Identifier
		if err := id.DecodeCanonical(r, c); err != nil {
			return err
		}
		*e = ElementType{isStruct: true, name: id}
	default:
		return fmt.Errorf("%w: element type tag %d", serialize.ErrInvalidData, tag)
	}
	return nil
}
