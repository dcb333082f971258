package dist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/chazu/quill/hash"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/program"
	"github.com/chazu/quill/serialize"
)

func mustArray(t *testing.T, p network.Params, s string) program.ArrayType {
	t.Helper()
	a, err := program.ArrayTypeFromString(p, s)
	if err != nil {
		t.Fatalf("ArrayTypeFromString(%q): %v", s, err)
	}
	return a
}

func TestEnvelope_CBORRoundTrip(t *testing.T) {
	e, err := Seal(network.Testnet, program.MemberAccess(program.MustIdentifier("owner")))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", e.ID, err)
	}

	data, err := MarshalEnvelope(e)
	if err != nil {
		t.Fatalf("MarshalEnvelope: %v", err)
	}
	got, err := UnmarshalEnvelope(data)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope: %v", err)
	}

	if got.ID != e.ID {
		t.Errorf("ID: got %q, want %q", got.ID, e.ID)
	}
	if got.Hash != e.Hash {
		t.Error("Hash mismatch")
	}
	if got.Kind != hash.KindAccess {
		t.Errorf("Kind: got %s, want access", got.Kind)
	}
	if got.Network != "testnet" || got.HashVersion != hash.HashVersion {
		t.Errorf("Network/HashVersion: got %q/%d", got.Network, got.HashVersion)
	}
	if !bytes.Equal(got.Payload, e.Payload) {
		t.Errorf("Payload: got %x, want %x", got.Payload, e.Payload)
	}
}

func TestEnvelope_Deterministic(t *testing.T) {
	e := &Envelope{ID: "fixed", Kind: hash.KindU32, HashVersion: 1, Network: "devnet", Payload: []byte{1, 0, 0, 0}}
	a, _ := MarshalEnvelope(e)
	b, _ := MarshalEnvelope(e)
	if !bytes.Equal(a, b) {
		t.Error("envelope encoding is not deterministic")
	}
}

func TestOpen(t *testing.T) {
	a := mustArray(t, network.Devnet, "[field; 8]")
	e, err := Seal(network.Devnet, a)
	if err != nil {
		t.Fatal(err)
	}
	got, err := OpenWith(e, network.Devnet, program.ArrayTypeDecoder(network.Devnet))
	if err != nil {
		t.Fatalf("OpenWith: %v", err)
	}
	if got != a {
		t.Errorf("OpenWith = %v, want %v", got, a)
	}

	opened, err := OpenAny(e, network.Devnet)
	if err != nil {
		t.Fatalf("OpenAny: %v", err)
	}
	if opened.(program.ArrayType) != a {
		t.Errorf("OpenAny = %v, want %v", opened, a)
	}

	f := program.NewField(99)
	fe, _ := Seal(network.Devnet, f)
	gotF, err := Open[program.Field](fe, network.Devnet)
	if err != nil || !gotF.Equal(f) {
		t.Errorf("Open[Field] = (%v, %v)", gotF, err)
	}
}

func TestOpen_Rejects(t *testing.T) {
	g := program.GroupGenerator()
	sealed := func() *Envelope {
		e, err := Seal(network.Testnet, g)
		if err != nil {
			t.Fatal(err)
		}
		return e
	}

	e := sealed()
	e.Payload[0] ^= 1
	if _, err := OpenAny(e, network.Testnet); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("tampered payload: got %v, want ErrHashMismatch", err)
	}

	e = sealed()
	if _, err := OpenAny(e, network.Devnet); !errors.Is(err, ErrNetworkMismatch) {
		t.Errorf("wrong network: got %v, want ErrNetworkMismatch", err)
	}

	e = sealed()
	e.HashVersion = 9
	if _, err := OpenAny(e, network.Testnet); !errors.Is(err, ErrVersion) {
		t.Errorf("bad version: got %v, want ErrVersion", err)
	}

	e = sealed()
	e.Kind = 0x7F
	if _, err := OpenAny(e, network.Testnet); !errors.Is(err, hash.ErrUnknownKind) {
		t.Errorf("unknown kind: got %v, want ErrUnknownKind", err)
	}

	e = sealed()
	if _, err := Open[program.Field](e, network.Testnet); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("wrong type: got %v, want ErrKindMismatch", err)
	}
}

func TestOpen_RevalidatesArrayBounds(t *testing.T) {
	// A devnet peer that was configured with a larger cap seals an array
	// the local devnet rejects.
	wide := network.Params{Name: "devnet", ID: 2, MaxArrayEntries: 1024}
	e, err := Seal(wide, mustArray(t, wide, "[u8; 100]"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := OpenAny(e, network.Devnet); !errors.Is(err, serialize.ErrInvalidData) {
		t.Errorf("got %v, want ErrInvalidData", err)
	}
}

func TestBundle_CBORRoundTrip(t *testing.T) {
	var b Bundle
	for _, v := range []serialize.CanonicalSerialize{program.U32(4), program.NewField(1), program.IndexAccess(2)} {
		e, err := Seal(network.Testnet, v)
		if err != nil {
			t.Fatal(err)
		}
		b.Envelopes = append(b.Envelopes, *e)
	}
	data, err := MarshalBundle(&b)
	if err != nil {
		t.Fatalf("MarshalBundle: %v", err)
	}
	got, err := UnmarshalBundle(data)
	if err != nil {
		t.Fatalf("UnmarshalBundle: %v", err)
	}
	if len(got.Envelopes) != 3 {
		t.Fatalf("Envelopes: got %d, want 3", len(got.Envelopes))
	}
	for i := range got.Envelopes {
		if _, err := OpenAny(&got.Envelopes[i], network.Testnet); err != nil {
			t.Errorf("envelope %d: %v", i, err)
		}
	}
}

func TestReceipt_CBORRoundTrip(t *testing.T) {
	r := &Receipt{Accepted: []string{"a"}, Rejected: map[string]string{"b": "hash mismatch"}}
	data, err := MarshalReceipt(r)
	if err != nil {
		t.Fatalf("MarshalReceipt: %v", err)
	}
	got, err := UnmarshalReceipt(data)
	if err != nil {
		t.Fatalf("UnmarshalReceipt: %v", err)
	}
	if len(got.Accepted) != 1 || got.Rejected["b"] != "hash mismatch" {
		t.Errorf("Receipt: got %+v", got)
	}
}

func TestUnmarshal_Garbage(t *testing.T) {
	if _, err := UnmarshalEnvelope([]byte{0xFF, 0x00}); err == nil {
		t.Error("garbage envelope decoded")
	}
}
