// Package errors provides structured error types for benchgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the compiler, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Locating context (line numbers, signal names) for netlist errors
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Netlist errors carry one of four codes, all terminal for the file being
// compiled:
//   - SYNTAX_ERROR: a line matches no declaration grammar
//   - UNRESOLVED_REFERENCE: a gate argument names an undeclared signal
//   - DUPLICATE_DECLARATION: a signal is declared incompatibly twice
//   - CYCLIC_GRAPH: the dependency graph contains a cycle
//
// The remaining codes follow the usual INVALID_* / NOT_FOUND_* / INTERNAL_*
// naming convention.
//
// # Usage
//
//	rec, err := compiler.Compile(r)
//	if errors.Is(err, errors.ErrCodeUnresolvedReference) {
//	    // Handle missing declaration
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Netlist errors
	ErrCodeSyntax               Code = "SYNTAX_ERROR"
	ErrCodeUnresolvedReference  Code = "UNRESOLVED_REFERENCE"
	ErrCodeDuplicateDeclaration Code = "DUPLICATE_DECLARATION"
	ErrCodeCyclicGraph          Code = "CYCLIC_GRAPH"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidRecord Code = "INVALID_RECORD"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Storage errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Coder is implemented by errors that expose a machine-readable code.
type Coder interface {
	Code() Code
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It walks the error chain and matches the first coded error it finds,
// either an *Error or a typed error implementing [Coder].
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Wrapping *Error values are skipped in favor of a more specific typed
// error underneath, so a SyntaxError wrapped with file context still
// reports SYNTAX_ERROR. Returns empty string if no coded error is found.
func GetCode(err error) Code {
	var outer Code
	for err != nil {
		switch e := err.(type) {
		case *Error:
			if outer == "" {
				outer = e.Code
			}
		case Coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return outer
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause if present. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsNetlistError reports whether err is one of the four terminal netlist
// errors produced by the compiler.
func IsNetlistError(err error) bool { return IsNetlistCode(GetCode(err)) }

// IsNetlistCode reports whether c is the code of a netlist error.
func IsNetlistCode(c Code) bool {
	switch c {
	case ErrCodeSyntax, ErrCodeUnresolvedReference, ErrCodeDuplicateDeclaration, ErrCodeCyclicGraph:
		return true
	}
	return false
}
