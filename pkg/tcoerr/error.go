// Package tcoerr defines the single structured error kind raised by the
// tail-call optimizer core. Every rejection — structural or semantic — is
// surfaced as one *Error carrying a discriminating Kind, never as an ad hoc
// wrapped error.
package tcoerr

import (
	"fmt"
	"strings"
)

// Kind discriminates the cause of a decoration failure.
type Kind string

const (
	// AsyncRejected means the target function spawns a goroutine in its own
	// body, so its activations can interleave and the trampoline's
	// parameter tuple would no longer be single-valued.
	AsyncRejected Kind = "ASYNC_REJECTED"

	// NestedRejected means the target's body contains a function literal
	// that refers to the target by name, so the name could be called from
	// a closure the trampoline does not control.
	NestedRejected Kind = "NESTED_REJECTED"

	// GeneratorRejected means the target has the range-over-func iterator
	// shape (a parameter named yield whose type is a bool-returning
	// callback), which carries resumable state the trampoline cannot model.
	GeneratorRejected Kind = "GENERATOR_REJECTED"

	// NotTailRecursive means one or more self-calls were found outside
	// tail position. Violations carries every occurrence found.
	NotTailRecursive Kind = "NOT_TAIL_RECURSIVE"

	// SourceUnavailable means the target's source could not be located by
	// the package loader (build-tag excluded, failed load, or the name did
	// not resolve to a function declaration).
	SourceUnavailable Kind = "SOURCE_UNAVAILABLE"

	// ArgumentShape means a tail call's arguments cannot be statically
	// remapped onto the declared parameters (arity mismatch, or a variadic
	// spread that cannot be matched 1:1).
	ArgumentShape Kind = "ARGUMENT_SHAPE"
)

// Violation is one instance of a non-tail self-call, or — for
// ArgumentShape — one instance of an unresolvable call shape.
type Violation struct {
	// Line is the 1-indexed source line the violation was found on, or 0
	// when the raising stage has no position information.
	Line int
	// Message is a short, human-readable diagnostic.
	Message string
}

// Error is the single structured error kind this module raises.
type Error struct {
	// Kind discriminates the cause.
	Kind Kind
	// Func is the bare name of the target function, when known.
	Func string
	// Violations carries the accumulated list for NotTailRecursive, or the
	// single offending call site for ArgumentShape; empty for the purely
	// structural kinds.
	Violations []Violation
	// Err wraps the underlying cause for SourceUnavailable, if any.
	Err error
}

// Error implements the error interface with a single-line summary.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Func != "" {
		fmt.Fprintf(&b, "%s: %s", e.Func, string(e.Kind))
	} else {
		b.WriteString(string(e.Kind))
	}
	switch e.Kind {
	case NotTailRecursive:
		fmt.Fprintf(&b, " (%d violation(s))", len(e.Violations))
	case ArgumentShape:
		if len(e.Violations) > 0 {
			fmt.Fprintf(&b, ": %s", e.Violations[0].Message)
		}
	case SourceUnavailable:
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		}
	}
	return b.String()
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chaining.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a structural Error (no violation payload).
func New(kind Kind, funcName string) *Error {
	return &Error{Kind: kind, Func: funcName}
}

// Wrap builds a SourceUnavailable Error around an underlying cause.
func Wrap(funcName string, cause error) *Error {
	return &Error{Kind: SourceUnavailable, Func: funcName, Err: cause}
}

// NotTail builds a NotTailRecursive Error from an accumulated violation list.
// violations must be non-empty; NotTail panics otherwise since an error with
// Kind NotTailRecursive and no violations would contradict the validator's
// own error-accumulating contract.
func NotTail(funcName string, violations []Violation) *Error {
	if len(violations) == 0 {
		panic("tcoerr: NotTail requires at least one violation")
	}
	return &Error{Kind: NotTailRecursive, Func: funcName, Violations: violations}
}

// ArgShape builds an ArgumentShape Error for a single unresolvable call site.
func ArgShape(funcName string, line int, message string) *Error {
	return &Error{
		Kind:       ArgumentShape,
		Func:       funcName,
		Violations: []Violation{{Line: line, Message: message}},
	}
}
