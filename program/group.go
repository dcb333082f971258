package program

import (
	"fmt"
	"io"
	"math/big"
	"slices"

	"github.com/crate-crypto/go-ipa/banderwagon"
	"github.com/crate-crypto/go-ipa/bandersnatch/fp"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

const (
	coordSize             = fp.Limbs * 8
	groupCompressedSize   = banderwagon.CompressedSize
	groupUncompressedSize = banderwagon.UncompressedSize

	// Base field elements are 255 bits wide.
	groupSpareBits = 1
)

// Group is an element of the prime-order group over the scalar field.
//
// The compressed form is the little-endian x-coordinate with the sign of y
// folded in. The uncompressed form is x then y, each little-endian.
type Group struct {
	p banderwagon.Element
}

func GroupGenerator() Group { return Group{p: banderwagon.Generator} }

func GroupIdentity() Group { return Group{p: banderwagon.Identity} }

func (g Group) Add(h Group) Group {
	var out Group
	out.p.Add(&g.p, &h.p)
	return out
}

func (g Group) Neg() Group {
	var out Group
	out.p.Neg(&g.p)
	return out
}

// ScalarMul returns s·g.
func (g Group) ScalarMul(s Field) Group {
	var out Group
	out.p.ScalarMul(&g.p, &s.e)
	return out
}

func (g Group) Equal(h Group) bool { return g.p.Equal(&h.p) }

// ---------------------------------------------------------------------------
// Text
// ---------------------------------------------------------------------------

// ParseGroup consumes a group literal: the decimal compressed x-coordinate
// followed by "group".
func ParseGroup(input string) (string, Group, error) {
	rest, digits, err := grammar.DigitSeq(input)
	if err != nil {
		return input, Group{}, err
	}
	rest, _, err = grammar.Tag("group")(rest)
	if err != nil {
		return input, Group{}, err
	}
	x, _ := new(big.Int).SetString(grammar.StripSeparators(digits), 10)
	if x.BitLen() > groupCompressedSize*8 {
		return input, Group{}, grammar.OutOfBounds(input, "%s exceeds the base field modulus", x)
	}
	var buf [groupCompressedSize]byte
	x.FillBytes(buf[:])
	var g Group
	if err := g.p.SetBytes(buf[:]); err != nil {
		return input, Group{}, grammar.OutOfBounds(input, "%s is not a group element: %v", x, err)
	}
	return rest, g, nil
}

// GroupFromString parses s as exactly one group literal.
func GroupFromString(s string) (Group, error) {
	return grammar.Complete[Group](ParseGroup, s)
}

func (g Group) String() string {
	b := g.p.Bytes()
	return new(big.Int).SetBytes(b[:]).String() + "group"
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Check verifies g is on the curve and in the prime-order subgroup.
func (g Group) Check() error {
	if !g.p.IsOnCurve() {
		return fmt.Errorf("%w: point not on curve", serialize.ErrValidation)
	}
	var canon banderwagon.Element
	b := g.p.Bytes()
	if err := canon.SetBytes(b[:]); err != nil {
		return fmt.Errorf("%w: %w", serialize.ErrValidation, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Binary
// ---------------------------------------------------------------------------

func reversed(b []byte) []byte {
	out := slices.Clone(b)
	slices.Reverse(out)
	return out
}

func (g Group) compressedLE() []byte {
	b := g.p.Bytes()
	return reversed(b[:])
}

// uncompressedLE encodes the canonical representative of g's class, so
// equal elements have equal encodings.
func (g Group) uncompressedLE() []byte {
	var canon banderwagon.Element
	b := g.p.Bytes()
	if err := canon.SetBytesUnsafe(b[:]); err != nil {
		canon = g.p
	}
	xy := canon.BytesUncompressedTrusted()
	out := reversed(xy[:coordSize])
	return append(out, reversed(xy[coordSize:])...)
}

func (g Group) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	if c == serialize.CompressYes {
		return serialize.Write(w, g.compressedLE())
	}
	return serialize.Write(w, g.uncompressedLE())
}

func (g Group) SerializedSize(c serialize.Compress) int {
	if c == serialize.CompressYes {
		return groupCompressedSize
	}
	return groupUncompressedSize
}

// DecodeCanonical rejects encodings whose coordinates are not reduced,
// uncompressed encodings of the non-canonical representative, and
// compressed x-coordinates with no point on the curve. Subgroup membership
// is left to Check.
func (g *Group) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	if c == serialize.CompressYes {
		b, err := serialize.ReadBytes(r, groupCompressedSize)
		if err != nil {
			return err
		}
		return g.setCompressedLE(b)
	}
	b, err := serialize.ReadBytes(r, groupUncompressedSize)
	if err != nil {
		return err
	}
	xy := append(reversed(b[:coordSize]), reversed(b[coordSize:])...)
	var x, y fp.Element
	if err := x.SetBytesCanonical(xy[:coordSize]); err != nil {
		return fmt.Errorf("%w: group x-coordinate: %w", serialize.ErrInvalidData, err)
	}
	if err := y.SetBytesCanonical(xy[coordSize:]); err != nil {
		return fmt.Errorf("%w: group y-coordinate: %w", serialize.ErrInvalidData, err)
	}
	// (x, y) and (-x, -y) are the same element; only the one whose y is
	// lexicographically largest is accepted.
	if !y.LexicographicallyLargest() {
		return fmt.Errorf("%w: group encoding is not the canonical representative", serialize.ErrInvalidData)
	}
	var p banderwagon.Element
	if err := p.SetBytesUncompressed(xy, true); err != nil {
		return fmt.Errorf("%w: %w", serialize.ErrInvalidData, err)
	}
	g.p = p
	return nil
}

func (g *Group) setCompressedLE(b []byte) error {
	var p banderwagon.Element
	if err := p.SetBytesUnsafe(reversed(b)); err != nil {
		return fmt.Errorf("%w: %w", serialize.ErrInvalidData, err)
	}
	g.p = p
	return nil
}

// With flags, the compressed form is used and the flags share its spare bit
// where they fit.

func (g Group) SerializeWithFlags(w io.Writer, flags serialize.Flags) error {
	return serialize.WriteWithFlags(w, g.compressedLE(), groupSpareBits, flags)
}

func (g Group) SerializedSizeWithFlags(flags serialize.Flags) int {
	return serialize.SizeWithFlags(groupCompressedSize, groupSpareBits, flags.BitSize())
}

func (g *Group) DecodeWithFlags(r io.Reader, p serialize.FlagParser) (serialize.Flags, error) {
	b, flags, err := serialize.ReadWithFlags(r, groupCompressedSize, groupSpareBits, p)
	if err != nil {
		return nil, err
	}
	if err := g.setCompressedLE(b); err != nil {
		return nil, err
	}
	return flags, nil
}
