// Package network holds the per-network constants that bound program values.
package network

import (
	"errors"
	"fmt"
	"math"
)

// Params are the network constants consulted when constructing, parsing,
// and decoding program values.
type Params struct {
	Name string `toml:"name"`
	ID   uint16 `toml:"id"`
	// MaxArrayEntries is the largest permitted array length.
	MaxArrayEntries uint32 `toml:"max-array-entries"`
}

var (
	// Testnet admits any array length representable as a u32.
	Testnet = Params{Name: "testnet", ID: 1, MaxArrayEntries: math.MaxUint32}
	// Devnet caps arrays at 32 entries.
	Devnet = Params{Name: "devnet", ID: 2, MaxArrayEntries: 32}
)

var ErrInvalidParams = errors.New("invalid network parameters")

// Known returns the built-in parameters for name.
func Known(name string) (Params, bool) {
	switch name {
	case Testnet.Name:
		return Testnet, true
	case Devnet.Name:
		return Devnet, true
	}
	return Params{}, false
}

// Validate reports whether p can bound program values.
func (p Params) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidParams)
	}
	if p.MaxArrayEntries == 0 {
		return fmt.Errorf("%w: %s: max-array-entries must be at least 1", ErrInvalidParams, p.Name)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("%s (id %d)", p.Name, p.ID)
}
