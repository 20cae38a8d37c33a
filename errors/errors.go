// Package errors provides error handling for typeinfer.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "check the converter order in am.toml")
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors shared across typeinfer.
// Use these with errors.Is() for type-safe error checking.
// Wrap or Mark them to add context while preserving the type.
var (
	// ErrInvalidConfig indicates a caller bug while configuring a registry or
	// the tool (empty converter name, nil converter, bad format table)
	ErrInvalidConfig = New("invalid configuration")

	// ErrNotFound indicates the requested converter or resource does not exist
	ErrNotFound = New("not found")

	// ErrConverterDefect indicates a converter failed for a reason other than
	// "this value is not of my type"
	ErrConverterDefect = New("converter defect")

	// ErrNoData indicates a batch pass processed zero values
	ErrNoData = New("no data")

	// ErrInvalidInput indicates malformed batch input (e.g. a ragged matrix)
	ErrInvalidInput = New("invalid input")

	// ErrFinalized indicates a mutation of a type report after its total was set
	ErrFinalized = New("already finalized")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidConfigError checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfigError(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsConverterDefect checks if an error is or wraps ErrConverterDefect
func IsConverterDefect(err error) bool {
	return err != nil && Is(err, ErrConverterDefect)
}

// IsNoData checks if an error is or wraps ErrNoData
func IsNoData(err error) bool {
	return err != nil && Is(err, ErrNoData)
}

// WrapNotFound wraps an error as a not-found error with context
func WrapNotFound(err error, context string) error {
	return Wrap(Mark(err, ErrNotFound), context)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// NewInvalidConfigError creates an invalid-configuration error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidConfig)
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidInput)
}

// WrapDefect marks err as a converter defect while keeping the original
// error reachable through Is/As.
func WrapDefect(err error, tag string) error {
	return Wrapf(Mark(err, ErrConverterDefect), "converter %q", tag)
}
