// Package bherr provides the structured, contextual error type used
// across the simulator. Every fatal condition (bad input, allocation
// failure, tree corruption, an invariant violation) is one of a small
// set of sentinel kinds, wrapped with the context that produced it.
package bherr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers distinguish them with errors.Is.
var (
	// ErrInput marks a missing or malformed command line or array file.
	ErrInput = errors.New("input error")
	// ErrAllocation marks a region/chunk allocator failure.
	ErrAllocation = errors.New("allocation failure")
	// ErrCorruption marks an unknown tag encountered by a reader.
	ErrCorruption = errors.New("corruption")
	// ErrInvariant marks a size or count invariant violation.
	ErrInvariant = errors.New("invariant violation")
)

// Error is a contextual error wrapping one of the sentinel kinds.
type Error struct {
	Kind    error
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

// Unwrap lets errors.Is/errors.As see both the sentinel kind and the
// underlying cause.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Wrap builds a contextual error of the given kind.
func Wrap(kind error, context string, cause error) error {
	if kind == nil {
		kind = ErrInvariant
	}
	return &Error{Kind: kind, Context: context, Cause: cause}
}

// Input builds an ErrInput-kind error.
func Input(context string, cause error) error { return Wrap(ErrInput, context, cause) }

// Allocation builds an ErrAllocation-kind error.
func Allocation(context string, cause error) error { return Wrap(ErrAllocation, context, cause) }

// Corruption builds an ErrCorruption-kind error.
func Corruption(context string, cause error) error { return Wrap(ErrCorruption, context, cause) }

// Invariant builds an ErrInvariant-kind error.
func Invariant(context string, cause error) error { return Wrap(ErrInvariant, context, cause) }
