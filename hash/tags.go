package hash

import "fmt"

// ---------------------------------------------------------------------------
// Frozen kind bytes for content hashing.
//
// IMPORTANT: These tags are FROZEN. Once assigned, a tag byte must never
// change meaning. Adding new kinds is fine; changing existing ones breaks
// all previously computed content hashes and every stored value.
// ---------------------------------------------------------------------------

// HashVersion is the version prefix of the hashed byte stream.
// Bumping this invalidates all existing content hashes.
const HashVersion byte = 1

// Kind identifies the type of a hashed value.
type Kind byte

const (
	KindReservedZero Kind = 0x00

	KindIdentifier  Kind = 0x01
	KindLiteralType Kind = 0x02
	KindElementType Kind = 0x03
	KindU32         Kind = 0x04
	KindField       Kind = 0x05
	KindGroup       Kind = 0x06
	KindAccess      Kind = 0x07
	KindArrayType   Kind = 0x08

	// Reserved 0xFE-0xFF
)

var kindNames = map[Kind]string{
	KindIdentifier:  "identifier",
	KindLiteralType: "literal-type",
	KindElementType: "element-type",
	KindU32:         "u32",
	KindField:       "field",
	KindGroup:       "group",
	KindAccess:      "access",
	KindArrayType:   "array",
}

// allKinds lists every defined kind for uniqueness verification in tests.
var allKinds = []Kind{
	KindReservedZero,
	KindIdentifier, KindLiteralType, KindElementType, KindU32,
	KindField, KindGroup, KindAccess, KindArrayType,
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(0x%02X)", byte(k))
}

// ParseKind returns the kind named name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Valid reports whether k is an assigned, non-reserved kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}
