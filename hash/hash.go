// Package hash computes content hashes of program values.
//
// A value's hash is SHA-256 over HashVersion, the value's Kind byte, and its
// canonical compressed encoding. Equal values therefore hash equally, and
// values of different kinds never collide on identical payload bytes.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/chazu/quill/program"
	"github.com/chazu/quill/serialize"
)

var (
	ErrUnknownKind = errors.New("unknown value kind")
	ErrBadHash     = errors.New("malformed hash")
)

// Hash is a content hash.
type Hash [sha256.Size]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

// Parse decodes a hex-encoded hash.
func Parse(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return h, fmt.Errorf("%w: %q", ErrBadHash, s)
	}
	copy(h[:], b)
	return h, nil
}

// KindOf returns the kind of a program value.
func KindOf(v serialize.CanonicalSerialize) (Kind, error) {
	switch v.(type) {
	case program.Identifier:
		return KindIdentifier, nil
	case program.LiteralType:
		return KindLiteralType, nil
	case program.ElementType:
		return KindElementType, nil
	case program.U32:
		return KindU32, nil
	case program.Field:
		return KindField, nil
	case program.Group:
		return KindGroup, nil
	case program.Access:
		return KindAccess, nil
	case program.ArrayType:
		return KindArrayType, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnknownKind, v)
}

// SumBytes hashes an already-encoded compressed payload of the given kind.
func SumBytes(kind Kind, payload []byte) Hash {
	h := sha256.New()
	h.Write([]byte{HashVersion, byte(kind)})
	h.Write(payload)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Sum hashes a program value.
func Sum(v serialize.CanonicalSerialize) (Hash, error) {
	kind, err := KindOf(v)
	if err != nil {
		return Hash{}, err
	}
	payload, err := serialize.ToBytes(v, serialize.CompressYes)
	if err != nil {
		return Hash{}, err
	}
	return SumBytes(kind, payload), nil
}
