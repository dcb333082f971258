package program

import (
	"io"
	"strconv"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/serialize"
)

// U32 is an unsigned 32-bit program integer, encoded as 4 little-endian bytes.
type U32 uint32

// ParseU32 consumes a digit sequence (underscores allowed after any digit).
func ParseU32(input string) (string, U32, error) {
	rest, n, err := grammar.Uint32(input)
	return rest, U32(n), err
}

func (n U32) String() string { return strconv.FormatUint(uint64(n), 10) }

func (n U32) Check() error { return nil }

func (n U32) SerializeWithMode(w io.Writer, c serialize.Compress) error {
	return serialize.WriteU32(w, uint32(n))
}

func (n U32) SerializedSize(c serialize.Compress) int { return 4 }

func (n *U32) DecodeCanonical(r io.Reader, c serialize.Compress) error {
	v, err := serialize.ReadU32(r)
	if err != nil {
		return err
	}
	*n = U32(v)
	return nil
}
