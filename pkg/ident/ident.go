// Package ident validates and normalizes SQL identifiers.
//
// An identifier is a dotted path such as "db.schema.table" or "t1.id".
// Names fully wrapped in backticks are accepted verbatim.
package ident

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidName is matched by every validation failure.
var ErrInvalidName = errors.New("invalid name")

// BadChar is an offending character and its byte offset.
type BadChar struct {
	Index int
	Char  rune
}

// ValidationError reports every offending position of a rejected name.
type ValidationError struct {
	Name string
	Bad  []BadChar
}

func (e *ValidationError) Error() string {
	if len(e.Bad) == 0 {
		return "name cannot be an empty str"
	}
	parts := make([]string, len(e.Bad))
	for i, b := range e.Bad {
		parts[i] = fmt.Sprintf("(%d, '%c')", b.Index, b.Char)
	}
	return "illegal name, due to bad characters in these locations: [" + strings.Join(parts, ", ") + "]"
}

// Is reports whether target is ErrInvalidName.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidName
}

// Identifier is a validated, normalized name. The zero value is not valid.
type Identifier struct {
	name string
}

// New validates s and returns its normalized form.
func New(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, &ValidationError{Name: s}
	}
	if IsQuoted(s) {
		return Identifier{name: s}, nil
	}

	var bad []BadChar
	for i, c := range s {
		var ok bool
		switch {
		case i == 0:
			ok = isFirst(c)
		case i+utf8.RuneLen(c) == len(s):
			ok = isLast(c)
		default:
			ok = isLast(c) || c == '.'
		}
		if !ok {
			bad = append(bad, BadChar{Index: i, Char: c})
		}
	}
	if len(bad) > 0 {
		return Identifier{}, &ValidationError{Name: s, Bad: bad}
	}
	return Identifier{name: collapseDots(s)}, nil
}

// Must is like New but panics on an invalid name.
func Must(s string) Identifier {
	id, err := New(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the normalized name.
func (id Identifier) String() string {
	return id.name
}

// IsZero reports whether id was never validated.
func (id Identifier) IsZero() bool {
	return id.name == ""
}

// IsQuoted reports whether s is fully delimited by backticks.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`'
}

func isFirst(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLast(c rune) bool {
	return isFirst(c) || (c >= '0' && c <= '9')
}

func collapseDots(s string) string {
	if !strings.Contains(s, "..") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && i > 0 && s[i-1] == '.' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
