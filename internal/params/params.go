// Package params parses the key=value parameter header written at the top of
// SLiM output files.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
)

// Marker is the character that introduces a parameter header line.
const Marker = "#"

var (
	// ErrMissingSeparator is returned for a token with no '='.
	ErrMissingSeparator = errors.New("missing '=' in parameter token")
	// ErrInvalidNumber is returned when a numeric-keyed value does not parse as a float.
	ErrInvalidNumber = errors.New("invalid numeric parameter value")
)

// TokenError describes a malformed key=value token.
type TokenError struct {
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// Kind distinguishes text from numeric parameter values.
type Kind int

const (
	Number Kind = iota
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "number"
}

// Value is a single parameter value.
type Value struct {
	kind Kind
	text string
	num  float64
}

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{kind: Text, text: s} }

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// Kind returns the value kind.
func (v Value) Kind() Kind { return v.kind }

// Text returns the text value and whether v holds text.
func (v Value) Text() (string, bool) { return v.text, v.kind == Text }

// Number returns the numeric value and whether v holds a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == Number }

// String formats the value the way it appeared in the header.
func (v Value) String() string {
	if v.kind == Text {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// MarshalJSON encodes text values as strings and numbers as numbers.
// JSON has no NaN or infinity, so those are written as the strings "NaN",
// "+Inf" and "-Inf".
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == Text {
		return json.Marshal(v.text)
	}
	switch {
	case math.IsNaN(v.num):
		return json.Marshal("NaN")
	case math.IsInf(v.num, 1):
		return json.Marshal("+Inf")
	case math.IsInf(v.num, -1):
		return json.Marshal("-Inf")
	}
	return json.Marshal(v.num)
}

// Params is an immutable set of named parameters kept in header order.
type Params struct {
	keys   []string
	values map[string]Value
}

// Get returns the value stored under key.
func (p Params) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Number returns the numeric value stored under key.
func (p Params) Number(key string) (float64, bool) {
	v, ok := p.values[key]
	if !ok {
		return 0, false
	}
	return v.Number()
}

// Keys returns parameter names in the order they first appeared.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.keys) }

// MarshalJSON encodes the parameters as an object in header order.
func (p Params) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := p.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// Parse parses a ';'-delimited list of key=value pairs. A leading Marker is
// stripped, as is trailing whitespace. Keys made only of letters keep their
// value as text; every other value must parse as a float. Every token,
// including an empty one, must contain '='.
func Parse(s string) (Params, error) {
	s = strings.TrimPrefix(strings.TrimRightFunc(s, unicode.IsSpace), Marker)

	p := Params{values: make(map[string]Value)}
	for _, tok := range strings.Split(s, ";") {
		key, val, err := splitKeyVal(tok)
		if err != nil {
			return Params{}, err
		}
		if _, seen := p.values[key]; !seen {
			p.keys = append(p.keys, key)
		}
		p.values[key] = val
	}
	return p, nil
}

func splitKeyVal(tok string) (string, Value, error) {
	key, raw, ok := strings.Cut(tok, "=")
	if !ok {
		return "", Value{}, &TokenError{Token: tok, Err: ErrMissingSeparator}
	}
	if isAlpha(key) {
		return key, TextValue(raw), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", Value{}, &TokenError{Token: tok, Err: fmt.Errorf("%w: %v", ErrInvalidNumber, err)}
	}
	return key, NumberValue(f), nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
