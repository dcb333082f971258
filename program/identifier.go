// Package program implements the leaf values of the instruction
// representation: identifiers, literal and element types, array types,
// path accesses, and the field and group scalars.
//
// Each value has a textual form (Parse*/String) and a canonical binary form
// (the serialize package contract). The two views are independent and both
// round-trip.
package program

import (
	"fmt"
	"io"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

var (
	// FieldBits is the bit length of the scalar field modulus.
	FieldBits = fr.Modulus().BitLen()
	// FieldDataBits is the number of bits a field element can hold for any
	// bit pattern.
	FieldDataBits = FieldBits - 1
)

// MaxIdentifierBytes is the longest identifier that fits one field element.
func MaxIdentifierBytes() int {
	return FieldDataBits / 8
}

// Identifier is a program name: an ASCII letter followed by letters, digits
// and underscores, short enough to pack into one field element.
type Identifier struct {
	name string
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ParseIdentifier consumes the longest identifier at the start of input.
func ParseIdentifier(input string) (string, Identifier, error) {
	if input == "" || !isLetter(input[0]) {
		return input, Identifier{}, grammar.Fail(input, "expected an identifier")
	}
	i := 1
	for i < len(input) && isIdentChar(input[i]) {
		i++
	}
	name := input[:i]
	if len(name) > MaxIdentifierBytes() {
		return input, Identifier{}, grammar.OutOfBounds(input, "identifier %q exceeds the field capacity of %d bytes", name, MaxIdentifierBytes())
	}
	return input[i:], Identifier{name: name}, nil
}

// NewIdentifier validates name as a whole identifier.
func NewIdentifier(name string) (Identifier, error) {
	return grammar.Complete[Identifier](ParseIdentifier, name)
}

// MustIdentifier is NewIdentifier for names known to be valid.
func MustIdentifier(name string) Identifier {
	id, err := NewIdentifier(name)
	if err != nil {
		panic(err)
	}
	return id
}

func (id Identifier) String() string { return id.name }

// Check verifies a decoded identifier obeys the identifier grammar.
func (id Identifier) Check() error {
	if _, err := NewIdentifier(id.name); err != nil {
		return fmt.Errorf("%w: identifier %q: %w", serialize.ErrValidation, id.name, err)
	}
	return nil
}

// Identifiers encode as a u8 length followed by the name bytes.

func (id Identifier) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	if len(id.name) > 255 {
		return fmt.Errorf("%w: identifier of %d bytes", serialize.ErrInvalidData, len(id.name))
	}
	if err := serialize.WriteU8(w, uint8(len(id.name))); err != nil {
		return err
	}
	return serialize.Write(w, []byte(id.name))
}

func (id Identifier) SerializedSize(c serialize.Compress) int {
	return 1 + len(id.name)
}

func (id *Identifier) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	n, err := serialize.ReadU8(r)
	if err != nil {
		return err
	}
	b, err := serialize.ReadBytes(r, int(n))
	if err != nil {
		return err
	}
	id.name = string(b)
	return nil
}
