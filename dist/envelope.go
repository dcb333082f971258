// Package dist ships program values between VMs. A value travels as an
// Envelope: its canonical compressed encoding plus the content hash, kind,
// and network it was sealed for, all CBOR encoded.
package dist

import (
	"github.com/chazu/quill/hash"
)

// Envelope carries one program value.
type Envelope struct {
	ID          string    `cbor:"1,keyasint"` // uuid, for correlating replies
	Hash        hash.Hash `cbor:"2,keyasint"`
	Kind        hash.Kind `cbor:"3,keyasint"`
	HashVersion byte      `cbor:"4,keyasint"`
	Network     string    `cbor:"5,keyasint"`
	Payload     []byte    `cbor:"6,keyasint"` // compressed canonical encoding
}

// Bundle is a batch of envelopes sent together.
type Bundle struct {
	Envelopes []Envelope `cbor:"1,keyasint"`
}

// Receipt is the reply to a Bundle.
type Receipt struct {
	Accepted []string          `cbor:"1,keyasint,omitempty"` // envelope ids
	Rejected map[string]string `cbor:"2,keyasint,omitempty"` // envelope id -> reason
}
