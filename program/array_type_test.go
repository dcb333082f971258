package program

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/serialize"
)

func TestArrayType_New(t *testing.T) {
	field := LiteralElement(LiteralField)
	for _, n := range []U32{1, 2, 32, 1 << 20, math.MaxUint32} {
		a, err := NewArrayType(network.Testnet, field, n)
		if err != nil {
			t.Errorf("NewArrayType(%d): %v", n, err)
			continue
		}
		if a.Length() != n || a.ElementType() != field {
			t.Errorf("NewArrayType(%d) = %v", n, a)
		}
	}

	if _, err := NewArrayType(network.Testnet, field, 0); !errors.Is(err, grammar.ErrBounds) {
		t.Errorf("zero length: got %v, want ErrBounds", err)
	}
	if _, err := NewArrayType(network.Devnet, field, U32(network.Devnet.MaxArrayEntries)+1); !errors.Is(err, grammar.ErrBounds) {
		t.Errorf("over capacity: got %v, want ErrBounds", err)
	}
	if _, err := NewArrayType(network.Devnet, field, U32(network.Devnet.MaxArrayEntries)); err != nil {
		t.Errorf("at capacity: %v", err)
	}
}

func TestArrayType_Parse(t *testing.T) {
	tests := []struct {
		input   string
		element ElementType
		length  U32
	}{
		{"[field; 4]", LiteralElement(LiteralField), 4},
		{"[foo; 1]", mustStruct("foo"), 1},
		{"[u8; 1_0]", LiteralElement(LiteralU8), 10},
		{"[scalar; 4294967295]", LiteralElement(LiteralScalar), 4294967295},
	}
	for _, tt := range tests {
		a, err := ArrayTypeFromString(network.Testnet, tt.input)
		if err != nil {
			t.Errorf("ArrayTypeFromString(%q): %v", tt.input, err)
			continue
		}
		if a.ElementType() != tt.element || a.Length() != tt.length {
			t.Errorf("ArrayTypeFromString(%q) = %v", tt.input, a)
		}
	}
}

func TestArrayType_ParseFailures(t *testing.T) {
	bounds := []string{"[field; 0]", "[field; 4294967296]"}
	for _, input := range bounds {
		if _, err := ArrayTypeFromString(network.Testnet, input); !errors.Is(err, grammar.ErrBounds) {
			t.Errorf("ArrayTypeFromString(%q): got %v, want ErrBounds", input, err)
		}
	}
	if _, err := ArrayTypeFromString(network.Devnet, "[field; 33]"); !errors.Is(err, grammar.ErrBounds) {
		t.Errorf("devnet over capacity: got %v, want ErrBounds", err)
	}

	malformed := []string{"[foo; -1]", "[field;4]", "[field 4]", "field; 4", "[field; 4", "[; 4]", "[4; 4]", "[field; 4]]"}
	for _, input := range malformed {
		if _, err := ArrayTypeFromString(network.Testnet, input); !errors.Is(err, grammar.ErrGrammar) {
			t.Errorf("ArrayTypeFromString(%q): got %v, want ErrGrammar", input, err)
		}
	}
}

func TestArrayType_Display(t *testing.T) {
	a, err := ArrayTypeFromString(network.Testnet, "[u8; 1_000]")
	if err != nil {
		t.Fatal(err)
	}
	if got := a.String(); got != "[u8; 1000]" {
		t.Errorf("String() = %q, want [u8; 1000]", got)
	}
	b, err := ArrayTypeFromString(network.Testnet, a.String())
	if err != nil || b != a {
		t.Errorf("reparse of %q = (%v, %v)", a, b, err)
	}
}

func TestArrayType_Binary(t *testing.T) {
	decode := ArrayTypeDecoder(network.Testnet)
	for _, input := range []string{"[field; 4]", "[foo; 1]", "[boolean; 4294967295]"} {
		a, err := ArrayTypeFromString(network.Testnet, input)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range modes {
			data, err := serialize.ToBytes(a, c)
			if err != nil {
				t.Fatalf("ToBytes(%v): %v", a, err)
			}
			if len(data) != a.SerializedSize(c) {
				t.Errorf("%v: wrote %d bytes, reported %d", a, len(data), a.SerializedSize(c))
			}
			for _, v := range []serialize.Validate{serialize.ValidateYes, serialize.ValidateNo} {
				got, err := decode.FromBytes(data, c, v)
				if err != nil {
					t.Fatalf("%v %v decode of %v: %v", c, v, a, err)
				}
				if got != a {
					t.Errorf("round trip of %v = %v", a, got)
				}
			}
		}
	}
}

func TestArrayType_DecodeRevalidatesBounds(t *testing.T) {
	zero := []byte{0, byte(LiteralField), 0, 0, 0, 0}
	huge := []byte{0, byte(LiteralField), 0x21, 0, 0, 0}

	for _, v := range []serialize.Validate{serialize.ValidateYes, serialize.ValidateNo} {
		if _, err := ArrayTypeDecoder(network.Testnet).FromBytes(zero, serialize.CompressYes, v); !errors.Is(err, grammar.ErrBounds) {
			t.Errorf("%v: zero length decode: got %v, want ErrBounds", v, err)
		}
		_, err := ArrayTypeDecoder(network.Devnet).FromBytes(huge, serialize.CompressYes, v)
		if !errors.Is(err, grammar.ErrBounds) || !errors.Is(err, serialize.ErrSerialization) {
			t.Errorf("%v: over-capacity decode: got %v, want ErrBounds", v, err)
		}
	}

	if _, err := ArrayTypeDecoder(network.Testnet).FromBytes(huge, serialize.CompressYes, serialize.ValidateYes); err != nil {
		t.Errorf("testnet decode of length 33: %v", err)
	}
}

func TestArrayType_DecodeShortInput(t *testing.T) {
	data := []byte{0, byte(LiteralField), 4, 0}
	if _, err := ArrayTypeDecoder(network.Testnet).DeserializeCompressed(bytes.NewReader(data)); !errors.Is(err, serialize.ErrNotEnoughBytes) {
		t.Errorf("got %v, want ErrNotEnoughBytes", err)
	}
}
