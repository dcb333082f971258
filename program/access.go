package program

import (
	"fmt"
	"io"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

// AccessKind discriminates the two forms of Access.
type AccessKind uint8

const (
	AccessIndex AccessKind = iota
	AccessMember
)

// Access wire tags.
const (
	accessTagMember uint8 = 0
	accessTagIndex  uint8 = 1
)

// Access is one step of a path expression: an array index such as [3], or
// a struct member such as .owner.
type Access struct {
	kind   AccessKind
	index  U32
	member Identifier
}

// IndexAccess returns the access [i].
func IndexAccess(i U32) Access {
	return Access{kind: AccessIndex, index: i}
}

// MemberAccess returns the access .id.
func MemberAccess(id Identifier) Access {
	return Access{kind: AccessMember, member: id}
}

func (a Access) Kind() AccessKind { return a.kind }

// Index returns the index, if a is an index access.
func (a Access) Index() (U32, bool) {
	return a.index, a.kind == AccessIndex
}

// Member returns the member name, if a is a member access.
func (a Access) Member() (Identifier, bool) {
	return a.member, a.kind == AccessMember
}

var parseAccess = grammar.Alt(
	grammar.Map[uint32, Access](grammar.Index, func(i uint32) (Access, error) {
		return IndexAccess(U32(i)), nil
	}),
	grammar.Map[Identifier, Access](grammar.Preceded[Identifier](".", ParseIdentifier), func(id Identifier) (Access, error) {
		return MemberAccess(id), nil
	}),
)

// ParseAccess consumes an index access or, failing that, a member access.
// The caller is responsible for the remainder; see AccessFromString.
func ParseAccess(input string) (string, Access, error) {
	return parseAccess(input)
}

// AccessFromString parses s as exactly one access.
func AccessFromString(s string) (Access, error) {
	return grammar.Complete[Access](ParseAccess, s)
}

func (a Access) String() string {
	if a.kind == AccessMember {
		return "." + a.member.String()
	}
	return "[" + a.index.String() + "]"
}

func (a Access) Check() error {
	switch a.kind {
	case AccessIndex:
		return nil
	case AccessMember:
		return a.member.Check()
	}
	return fmt.Errorf("%w: unknown access kind %d", serialize.ErrValidation, a.kind)
}

func (a Access) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	if a.kind == AccessMember {
		if err := serialize.WriteU8(w, accessTagMember); err != nil {
			return err
		}
		return a.member.SerializeWithMode(w, c)
	}
	if err := serialize.WriteU8(w, accessTagIndex); err != nil {
		return err
	}
	return a.index.SerializeWithMode(w, c)
}

func (a Access) SerializedSize(c serialize.Compress) int {
	if a.kind == AccessMember {
		return 1 + a.member.SerializedSize(c)
	}
	return 1 + a.index.SerializedSize(c)
}

func (a *Access) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	tag, err := serialize.ReadU8(r)
	if err != nil {
		return err
	}
	switch tag {
	case accessTagMember:
		var id Identifier
		if err := id.DecodeCanonical(r, c); err != nil {
			return err
		}
		*a = MemberAccess(id)
	case accessTagIndex:
		var i U32
		if err := i.DecodeCanonical(r, c); err != nil {
			return err
		}
		*a = IndexAccess(i)
	default:
		return fmt.Errorf("%w: access tag %d", serialize.ErrInvalidData, tag)
	}
	return nil
}
