package hash

import (
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/chazu/quill/program"
	"github.com/chazu/quill/serialize"
)

func TestKindUniqueness(t *testing.T) {
	seen := make(map[Kind]bool, len(allKinds))
	for _, k := range allKinds {
		if seen[k] {
			t.Errorf("duplicate kind: 0x%02X", byte(k))
		}
		seen[k] = true
		if k >= 0xFE {
			t.Errorf("kind 0x%02X is in reserved range 0xFE-0xFF", byte(k))
		}
	}
	if len(kindNames) != len(allKinds)-1 {
		t.Errorf("%d kind names for %d assigned kinds", len(kindNames), len(allKinds)-1)
	}
}

func TestHashVersionNonZero(t *testing.T) {
	if HashVersion == 0 {
		t.Error("HashVersion must be non-zero")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds[1:] {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = (%v, %v), want %v", k, got, err, k)
		}
	}
	if _, err := ParseKind("nope"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(nope): got %v, want ErrUnknownKind", err)
	}
	if KindReservedZero.Valid() {
		t.Error("reserved kind reported valid")
	}
}

func TestSum_Layout(t *testing.T) {
	v := program.IndexAccess(7)
	got, err := Sum(v)
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := serialize.ToBytes(v, serialize.CompressYes)
	want := sha256.Sum256(append([]byte{HashVersion, byte(KindAccess)}, payload...))
	if got != Hash(want) {
		t.Errorf("Sum = %s, want %x", got, want)
	}
	if SumBytes(KindAccess, payload) != got {
		t.Error("SumBytes disagrees with Sum")
	}
}

func TestSum_KindSeparates(t *testing.T) {
	payload := make([]byte, 4)
	if SumBytes(KindU32, payload) == SumBytes(KindField, payload) {
		t.Error("distinct kinds hashed equally")
	}
	u, _ := Sum(program.U32(0))
	if u != SumBytes(KindU32, payload) {
		t.Error("U32(0) does not hash as four zero bytes")
	}
}

func TestSum_EqualValues(t *testing.T) {
	a, _ := program.AccessFromString("[1_000]")
	b, _ := program.AccessFromString("[1000]")
	ha, _ := Sum(a)
	hb, _ := Sum(b)
	if ha != hb {
		t.Errorf("equal values hashed differently: %s vs %s", ha, hb)
	}

	g := program.GroupGenerator()
	h1, _ := Sum(g.ScalarMul(program.NewField(2)))
	h2, _ := Sum(g.Add(g))
	if h1 != h2 {
		t.Error("equal group elements hashed differently")
	}
}

func TestSum_UnknownKind(t *testing.T) {
	if _, err := Sum(serialize.CanonicalSerialize(nil)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("got %v, want ErrUnknownKind", err)
	}
}

func TestParse(t *testing.T) {
	h, _ := Sum(program.NewField(3))
	got, err := Parse(h.String())
	if err != nil || got != h {
		t.Errorf("Parse(%s) = (%s, %v)", h, got, err)
	}
	for _, s := range []string{"", "zz", h.String()[:10]} {
		if _, err := Parse(s); !errors.Is(err, ErrBadHash) {
			t.Errorf("Parse(%q): got %v, want ErrBadHash", s, err)
		}
	}
}
