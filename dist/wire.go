package dist

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/chazu/quill/hash"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/program"
	"github.com/chazu/quill/serialize"
)

var (
	ErrHashMismatch    = errors.New("dist: hash mismatch")
	ErrKindMismatch    = errors.New("dist: kind mismatch")
	ErrNetworkMismatch = errors.New("dist: network mismatch")
	ErrVersion         = errors.New("dist: unsupported hash version")
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Seal wraps v in an Envelope for network p.
func Seal(p network.Params, v serialize.CanonicalSerialize) (*Envelope, error) {
	kind, err := hash.KindOf(v)
	if err != nil {
		return nil, err
	}
	payload, err := serialize.ToBytes(v, serialize.CompressYes)
	if err != nil {
		return nil, fmt.Errorf("dist: seal %s: %w", kind, err)
	}
	return &Envelope{
		ID:          uuid.NewString(),
		Hash:        hash.SumBytes(kind, payload),
		Kind:        kind,
		HashVersion: hash.HashVersion,
		Network:     p.Name,
		Payload:     payload,
	}, nil
}

// MarshalEnvelope serializes an Envelope to CBOR bytes.
func MarshalEnvelope(e *Envelope) ([]byte, error) {
	return cborEncMode.Marshal(e)
}

// UnmarshalEnvelope deserializes an Envelope from CBOR bytes.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("dist: unmarshal envelope: %w", err)
	}
	return &e, nil
}

// MarshalBundle serializes a Bundle to CBOR bytes.
func MarshalBundle(b *Bundle) ([]byte, error) {
	return cborEncMode.Marshal(b)
}

// UnmarshalBundle deserializes a Bundle from CBOR bytes.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("dist: unmarshal bundle: %w", err)
	}
	return &b, nil
}

// MarshalReceipt serializes a Receipt to CBOR bytes.
func MarshalReceipt(r *Receipt) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalReceipt deserializes a Receipt from CBOR bytes.
func UnmarshalReceipt(data []byte) (*Receipt, error) {
	var r Receipt
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("dist: unmarshal receipt: %w", err)
	}
	return &r, nil
}

// Verify checks that e was sealed for p with a supported hash version and
// that its payload matches its declared hash. It does not decode the payload.
func (e *Envelope) Verify(p network.Params) error {
	if e.HashVersion != hash.HashVersion {
		return fmt.Errorf("%w: %d", ErrVersion, e.HashVersion)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("dist: %w: %s", hash.ErrUnknownKind, e.Kind)
	}
	if e.Network != p.Name {
		return fmt.Errorf("%w: sealed for %q, receiving on %q", ErrNetworkMismatch, e.Network, p.Name)
	}
	if computed := hash.SumBytes(e.Kind, e.Payload); computed != e.Hash {
		return fmt.Errorf("%w: declared %s, computed %s", ErrHashMismatch, e.Hash, computed)
	}
	return nil
}

// Open verifies e and decodes its payload as a T.
func Open[T any, PT interface {
	*T
	serialize.CanonicalDeserialize
}](e *Envelope, p network.Params) (T, error) {
	return OpenWith(e, p, serialize.Decoder[T, PT]())
}

// OpenWith is Open for types decoded by a DecodeFunc.
func OpenWith[T any](e *Envelope, p network.Params, decode serialize.DecodeFunc[T]) (T, error) {
	var zero T
	cs, ok := any(zero).(serialize.CanonicalSerialize)
	if !ok {
		return zero, fmt.Errorf("%w: %T is not a program value", ErrKindMismatch, zero)
	}
	if kind, err := hash.KindOf(cs); err != nil || kind != e.Kind {
		return zero, fmt.Errorf("%w: envelope holds %s, want %T", ErrKindMismatch, e.Kind, zero)
	}
	if err := e.Verify(p); err != nil {
		return zero, err
	}
	v, err := decode.FromBytes(e.Payload, serialize.CompressYes, serialize.ValidateYes)
	if err != nil {
		return zero, fmt.Errorf("dist: open %s: %w", e.Kind, err)
	}
	return v, nil
}

// OpenAny verifies e and decodes its payload as whatever kind it declares.
func OpenAny(e *Envelope, p network.Params) (serialize.CanonicalSerialize, error) {
	if err := e.Verify(p); err != nil {
		return nil, err
	}
	v, err := DecodeKind(e.Kind, p, e.Payload, serialize.CompressYes, serialize.ValidateYes)
	if err != nil {
		return nil, fmt.Errorf("dist: open %s: %w", e.Kind, err)
	}
	return v, nil
}

// DecodeKind decodes data as a value of the given kind.
func DecodeKind(kind hash.Kind, p network.Params, data []byte, c serialize.Compress, v serialize.Validate) (serialize.CanonicalSerialize, error) {
	switch kind {
	case hash.KindIdentifier:
		return decodeWith(serialize.Decoder[program.Identifier](), data, c, v)
	case hash.KindLiteralType:
		return decodeWith(serialize.Decoder[program.LiteralType](), data, c, v)
	case hash.KindElementType:
		return decodeWith(serialize.Decoder[program.ElementType](), data, c, v)
	case hash.KindU32:
		return decodeWith(serialize.Decoder[program.U32](), data, c, v)
	case hash.KindField:
		return decodeWith(serialize.Decoder[program.Field](), data, c, v)
	case hash.KindGroup:
		return decodeWith(serialize.Decoder[program.Group](), data, c, v)
	case hash.KindAccess:
		return decodeWith(serialize.Decoder[program.Access](), data, c, v)
	case hash.KindArrayType:
		return decodeWith(program.ArrayTypeDecoder(p), data, c, v)
	}
	return nil, fmt.Errorf("%w: %s", hash.ErrUnknownKind, kind)
}

func decodeWith[T serialize.CanonicalSerialize](d serialize.DecodeFunc[T], data []byte, c serialize.Compress, v serialize.Validate) (serialize.CanonicalSerialize, error) {
	out, err := d.FromBytes(data, c, v)
	if err != nil {
		return nil, err
	}
	return out, nil
}
