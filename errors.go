package activeenum

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrTypeMismatch is returned when a representation matches no variant.
	ErrTypeMismatch = errors.New("activeenum: type mismatch")

	// ErrConversionUnsupported is returned when an enum is reconstructed from
	// a numeric surrogate identity.
	ErrConversionUnsupported = errors.New("activeenum: conversion unsupported")

	// ErrUnsupportedOperation marks static misconfiguration such as decoding a
	// native array without the array capability.
	ErrUnsupportedOperation = errors.New("activeenum: unsupported operation")

	// ErrDuplicateIdentifier is returned when two variants of one enum
	// synthesize the same identifier.
	ErrDuplicateIdentifier = errors.New("activeenum: duplicate identifier")

	// ErrInvalidDefinition is returned for malformed enum definitions.
	ErrInvalidDefinition = errors.New("activeenum: invalid definition")
)

// TypeMismatchError reports a representation outside the variant set.
type TypeMismatchError struct {
	Enum  Name // Enum being decoded
	Value any  // Offending representation
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("activeenum: unexpected value for %s enum: %v", e.Enum, e.Value)
}

// Is reports whether the target error matches TypeMismatchError.
func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// IsTypeMismatch returns true if the error is a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *TypeMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrTypeMismatch)
}

// ConversionUnsupportedError reports an attempt to build an enum value from
// an auto-increment identity.
type ConversionUnsupportedError struct {
	Enum  Name
	Value uint64
}

// Error returns the error string.
func (e *ConversionUnsupportedError) Error() string {
	return fmt.Sprintf("activeenum: failed to construct %s enum from a u64 (%d); "+
		"if your primary key consists of an active enum field, its auto increment should be set to false",
		e.Enum, e.Value)
}

// Is reports whether the target error matches ConversionUnsupportedError.
func (e *ConversionUnsupportedError) Is(err error) bool {
	return err == ErrConversionUnsupported
}

// IsConversionUnsupported returns true if the error is a ConversionUnsupportedError.
func IsConversionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *ConversionUnsupportedError
	return errors.As(err, &e) || errors.Is(err, ErrConversionUnsupported)
}

// UnsupportedOperationError describes an operation that can never succeed
// under the current configuration. It is raised with panic, not returned.
type UnsupportedOperationError struct {
	Op     string // Operation attempted, e.g. "array decode"
	Kind   Kind   // Representation kind involved
	Reason string
}

// Error returns the error string.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("activeenum: %s of %s: %s", e.Op, e.Kind, e.Reason)
}

// Is reports whether the target error matches UnsupportedOperationError.
func (e *UnsupportedOperationError) Is(err error) bool {
	return err == ErrUnsupportedOperation
}

// IsUnsupportedOperation returns true if the error is an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedOperationError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedOperation)
}

// DuplicateIdentifierError reports two variants of one enum whose labels
// synthesize to the same identifier.
type DuplicateIdentifierError struct {
	Enum   Name
	Ident  string // Shared identifier
	First  string // Raw label of the earlier variant
	Second string // Raw label of the later variant
}

// Error returns the error string.
func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("activeenum: %s enum: variants %q and %q both produce identifier %q",
		e.Enum, e.First, e.Second, e.Ident)
}

// Is reports whether the target error matches DuplicateIdentifierError.
func (e *DuplicateIdentifierError) Is(err error) bool {
	return err == ErrDuplicateIdentifier
}

// IsDuplicateIdentifier returns true if the error is a DuplicateIdentifierError.
func IsDuplicateIdentifier(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateIdentifierError
	return errors.As(err, &e) || errors.Is(err, ErrDuplicateIdentifier)
}

// DefinitionError reports any other malformed enum definition.
type DefinitionError struct {
	Enum   Name
	Reason string
}

// Error returns the error string.
func (e *DefinitionError) Error() string {
	if e.Enum == "" {
		return "activeenum: invalid enum definition: " + e.Reason
	}
	return fmt.Sprintf("activeenum: invalid %s enum definition: %s", e.Enum, e.Reason)
}

// Is reports whether the target error matches DefinitionError.
func (e *DefinitionError) Is(err error) bool {
	return err == ErrInvalidDefinition
}

// TryGetError wraps a failure to read a column from a result row.
type TryGetError struct {
	Column string
	Err    error
}

// Error returns the error string.
func (e *TryGetError) Error() string {
	return fmt.Sprintf("activeenum: get column %s: %v", e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *TryGetError) Unwrap() error {
	return e.Err
}
