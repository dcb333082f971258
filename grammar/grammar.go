// Package grammar provides the small parsing primitives shared by the
// textual forms of program values.
//
// Every parser consumes a prefix of its input and returns the unconsumed
// remainder. Callers that need a whole string to match use Complete, which
// rejects any leftover input.
package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// ErrGrammar indicates no production matched, or input was left over.
	ErrGrammar = errors.New("grammar error")
	// ErrBounds indicates a production matched but its value is out of range.
	ErrBounds = errors.New("bounds error")
)

// Error records where a production failed.
type Error struct {
	Kind  error  // ErrGrammar or ErrBounds
	Input string // input remaining at the point of failure
	Msg   string
}

func (e *Error) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%v: %s at end of input", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%v: %s at %q", e.Kind, e.Msg, e.Input)
}

func (e *Error) Unwrap() error { return e.Kind }

// Fail returns an ErrGrammar failure at input.
func Fail(input string, format string, args ...any) error {
	return &Error{Kind: ErrGrammar, Input: input, Msg: fmt.Sprintf(format, args...)}
}

// OutOfBounds returns an ErrBounds failure at input.
func OutOfBounds(input string, format string, args ...any) error {
	return &Error{Kind: ErrBounds, Input: input, Msg: fmt.Sprintf(format, args...)}
}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// Parser consumes a prefix of input, returning the rest and the parsed value.
type Parser[T any] func(input string) (string, T, error)

// Tag matches the literal t.
func Tag(t string) Parser[string] {
	return func(input string) (string, string, error) {
		if !strings.HasPrefix(input, t) {
			return input, "", Fail(input, "expected %q", t)
		}
		return input[len(t):], t, nil
	}
}

// Map applies f to the value parsed by p. An error from f fails the parse.
func Map[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(input string) (string, U, error) {
		var zero U
		rest, v, err := p(input)
		if err != nil {
			return input, zero, err
		}
		u, err := f(v)
		if err != nil {
			return input, zero, err
		}
		return rest, u, nil
	}
}

// Preceded matches prefix and then p, keeping the value of p.
func Preceded[T any](prefix string, p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		var zero T
		rest, _, err := Tag(prefix)(input)
		if err != nil {
			return input, zero, err
		}
		rest, v, err := p(rest)
		if err != nil {
			return input, zero, err
		}
		return rest, v, nil
	}
}

// Alt tries each parser in order and returns the first success.
//
// A bounds failure stops the alternation: the branch recognized its
// production, so later branches are not consulted. When every branch fails
// with a grammar error, the last branch's error is returned.
func Alt[T any](ps ...Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		var zero T
		err := Fail(input, "no alternative matched")
		for _, p := range ps {
			rest, v, perr := p(input)
			if perr == nil {
				return rest, v, nil
			}
			if errors.Is(perr, ErrBounds) {
				return input, zero, perr
			}
			err = perr
		}
		return input, zero, err
	}
}

// Complete runs p over the whole of input and fails if anything remains.
func Complete[T any](p Parser[T], input string) (T, error) {
	var zero T
	rest, v, err := p(input)
	if err != nil {
		return zero, fmt.Errorf("failed to parse string: %w", err)
	}
	if rest != "" {
		return zero, &Error{Kind: ErrGrammar, Input: rest, Msg: fmt.Sprintf("found invalid character in remainder: %q", rest)}
	}
	return v, nil
}

// ---------------------------------------------------------------------------
// Numeric literals
// ---------------------------------------------------------------------------

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// DigitSeq recognizes one or more ASCII digits, each optionally followed by
// any number of underscores. The recognized text is returned verbatim.
func DigitSeq(input string) (string, string, error) {
	i := 0
	for i < len(input) && isDigit(input[i]) {
		i++
		for i < len(input) && input[i] == '_' {
			i++
		}
	}
	if i == 0 {
		return input, "", Fail(input, "expected a digit")
	}
	return input[i:], input[:i], nil
}

// StripSeparators removes the underscores from a recognized digit sequence.
func StripSeparators(digits string) string {
	return strings.ReplaceAll(digits, "_", "")
}

// Uint32 parses a digit sequence as a decimal u32.
func Uint32(input string) (string, uint32, error) {
	rest, digits, err := DigitSeq(input)
	if err != nil {
		return input, 0, err
	}
	n, err := strconv.ParseUint(StripSeparators(digits), 10, 32)
	if err != nil {
		return input, 0, OutOfBounds(input, "%s does not fit in an unsigned 32-bit integer", digits)
	}
	return rest, uint32(n), nil
}

// Index parses a bracketed u32 literal such as "[12]" or "[1_000]".
func Index(input string) (string, uint32, error) {
	rest, _, err := Tag("[")(input)
	if err != nil {
		return input, 0, err
	}
	rest, n, err := Uint32(rest)
	if err != nil {
		return input, 0, err
	}
	rest, _, err = Tag("]")(rest)
	if err != nil {
		return input, 0, err
	}
	return rest, n, nil
}
