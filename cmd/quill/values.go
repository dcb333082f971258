package main

import (
	"fmt"

	"github.com/chazu/quill/grammar"
	"github.com/chazu/quill/hash"
	"github.com/chazu/quill/network"
	"github.com/chazu/quill/program"
	"github.com/chazu/quill/serialize"
)

// parseValue parses text as a value of the given kind.
func parseValue(kind hash.Kind, p network.Params, text string) (serialize.CanonicalSerialize, error) {
	switch kind {
	case hash.KindIdentifier:
		return wrap(program.NewIdentifier(text))
	case hash.KindLiteralType:
		t, ok := program.LiteralTypeByName(text)
		if !ok {
			return nil, fmt.Errorf("%w: unknown literal type %q", grammar.ErrGrammar, text)
		}
		return t, nil
	case hash.KindElementType:
		return wrap(grammar.Complete[program.ElementType](program.ParseElementType, text))
	case hash.KindU32:
		return wrap(grammar.Complete[program.U32](program.ParseU32, text))
	case hash.KindField:
		return wrap(program.FieldFromString(text))
	case hash.KindGroup:
		return wrap(program.GroupFromString(text))
	case hash.KindAccess:
		return wrap(program.AccessFromString(text))
	case hash.KindArrayType:
		return wrap(program.ArrayTypeFromString(p, text))
	}
	return nil, fmt.Errorf("%w: %s", hash.ErrUnknownKind, kind)
}

func wrap[T serialize.CanonicalSerialize](v T, err error) (serialize.CanonicalSerialize, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
