package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies builder failures.
type ErrorKind int

// ErrorKind constants.
const (
	// KindType is a wrong operand kind passed to a constructor.
	KindType ErrorKind = iota
	// KindInvariant is a structural rule broken while composing nodes.
	KindInvariant
	// KindRender is a failure only detectable when SQL is requested.
	KindRender
)

func (k ErrorKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindInvariant:
		return "invariant"
	case KindRender:
		return "render"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels matched by Error.Is.
var (
	ErrType      = errors.New("type error")
	ErrInvariant = errors.New("invariant error")
	ErrRender    = errors.New("render error")
)

// Error is returned by every constructor in this package.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrType:
		return e.Kind == KindType
	case ErrInvariant:
		return e.Kind == KindInvariant
	case ErrRender:
		return e.Kind == KindRender
	}
	return false
}

// Errorf builds an *Error of the given kind. Builders layered on this
// package use it so their failures match the same sentinels.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...any) error {
	return Errorf(KindType, format, args...)
}

func invariantErrorf(format string, args ...any) error {
	return Errorf(KindInvariant, format, args...)
}

func renderErrorf(format string, args ...any) error {
	return Errorf(KindRender, format, args...)
}
