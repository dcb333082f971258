package serialize

import "fmt"

// Flags is metadata of at most 8 bits carried in the high bits of a
// payload's trailing byte.
type Flags interface {
	// BitSize is the number of bits needed to encode the flags.
	BitSize() int
	// U8Bitmask returns the flags aligned to the top of a byte. Distinct
	// flag values produce distinct masks.
	U8Bitmask() uint8
}

// FlagParser recovers flags from a byte. It is implemented by FlagKind.
type FlagParser interface {
	BitSize() int
	removeFlags(v *uint8) (Flags, bool)
}

// topMask returns a byte with the top n bits set.
func topMask(n int) uint8 {
	return ^uint8(0xFF >> uint(n))
}

// ---------------------------------------------------------------------------
// FlagKind: the set of values a Flags type can take
// ---------------------------------------------------------------------------

// FlagKind enumerates the values of one Flags type so they can be decoded
// from the top bits of a byte.
type FlagKind[F Flags] struct {
	name     string
	bitSize  int
	variants []F
}

// NewFlagKind declares a flag family. It panics when bitSize exceeds 8, when
// a variant reports a different size, or when masks collide or fall outside
// the top bitSize bits. These are declaration mistakes, not input errors.
func NewFlagKind[F Flags](name string, bitSize int, variants ...F) FlagKind[F] {
	if bitSize < 0 || bitSize > 8 {
		panic(fmt.Sprintf("serialize: flag kind %s: bit size %d out of range [0, 8]", name, bitSize))
	}
	top := topMask(bitSize)
	seen := make(map[uint8]bool, len(variants))
	for _, v := range variants {
		if v.BitSize() != bitSize {
			panic(fmt.Sprintf("serialize: flag kind %s: variant %v has bit size %d, want %d", name, v, v.BitSize(), bitSize))
		}
		m := v.U8Bitmask()
		if m&^top != 0 {
			panic(fmt.Sprintf("serialize: flag kind %s: mask %08b uses bits below the top %d", name, m, bitSize))
		}
		if seen[m] {
			panic(fmt.Sprintf("serialize: flag kind %s: duplicate mask %08b", name, m))
		}
		seen[m] = true
	}
	return FlagKind[F]{name: name, bitSize: bitSize, variants: append([]F(nil), variants...)}
}

// Name returns the name the kind was declared with.
func (k FlagKind[F]) Name() string { return k.name }

// BitSize returns the number of high bits the kind occupies.
func (k FlagKind[F]) BitSize() int { return k.bitSize }

// FromU8 looks only at the top BitSize bits of v and returns the flag whose
// mask they equal.
func (k FlagKind[F]) FromU8(v uint8) (F, bool) {
	top := v & topMask(k.bitSize)
	for _, f := range k.variants {
		if f.U8Bitmask() == top {
			return f, true
		}
	}
	var zero F
	return zero, false
}

// FromU8RemoveFlags is FromU8 that also clears the matched mask from *v.
// On no match *v is left unchanged.
func (k FlagKind[F]) FromU8RemoveFlags(v *uint8) (F, bool) {
	f, ok := k.FromU8(*v)
	if ok {
		*v &^= f.U8Bitmask()
	}
	return f, ok
}

func (k FlagKind[F]) removeFlags(v *uint8) (Flags, bool) {
	f, ok := k.FromU8RemoveFlags(v)
	if !ok {
		return nil, false
	}
	return f, true
}

// ---------------------------------------------------------------------------
// Standard flag types
// ---------------------------------------------------------------------------

// EmptyFlags carries no information and occupies no bits.
type EmptyFlags struct{}

func (EmptyFlags) BitSize() int { return 0 }
func (EmptyFlags) U8Bitmask() uint8 { return 0 }
func (EmptyFlags) String() string { return "empty" }

// EdwardsFlags records the sign of a twisted Edwards y-coordinate.
type EdwardsFlags uint8

const (
	EdwardsPositiveY EdwardsFlags = iota
	EdwardsNegativeY
)

func (f EdwardsFlags) BitSize() int { return 1 }

func (f EdwardsFlags) U8Bitmask() uint8 {
	if f == EdwardsNegativeY {
		return 1 << 7
	}
	return 0
}

func (f EdwardsFlags) String() string {
	if f == EdwardsNegativeY {
		return "negative-y"
	}
	return "positive-y"
}

// SWFlags records the y sign of a short Weierstrass point, or that it is
// the point at infinity.
type SWFlags uint8

const (
	SWNegativeY SWFlags = iota
	SWPositiveY
	SWInfinity
)

func (f SWFlags) BitSize() int { return 2 }

func (f SWFlags) U8Bitmask() uint8 {
	switch f {
	case SWPositiveY:
		return 1 << 7
	case SWInfinity:
		return 1 << 6
	}
	return 0
}

func (f SWFlags) String() string {
	switch f {
	case SWPositiveY:
		return "positive-y"
	case SWInfinity:
		return "infinity"
	}
	return "negative-y"
}

var (
	EmptyFlagKind   = NewFlagKind("empty", 0, EmptyFlags{})
	EdwardsFlagKind = NewFlagKind("edwards", 1, EdwardsPositiveY, EdwardsNegativeY)
	SWFlagKind      = NewFlagKind("short-weierstrass", 2, SWNegativeY, SWPositiveY, SWInfinity)
)
