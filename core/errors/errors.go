// Package errors provides the typed errors returned outside the parser core.
// Every type unwraps to one of the package sentinels so callers can branch
// with errors.Is without knowing the concrete type.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a book, chapter, verse or cached entry is missing
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or a malformed encoding
	ErrInvalidInput = errors.New("invalid input")
	// ErrAmbiguous indicates a name that resolves to more than one book
	ErrAmbiguous = errors.New("ambiguous")
	// ErrUnsupported indicates an unknown format or an operation a codec lacks
	ErrUnsupported = errors.New("unsupported")
)

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string // "book", "chapter", "verse", "cache entry", ...
	ID       string // Identifier as the caller wrote it
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// AmbiguousError reports an input that matched several candidates equally well.
type AmbiguousError struct {
	Input      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q is ambiguous: %s", e.Input, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguous
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field or argument that failed validation
	Value   string // Offending value
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // "open", "read", "write", "create", ...
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports an encoded document that could not be decoded.
type ParseError struct {
	Format  string // Codec name, e.g. "bin", "osis"
	Path    string // File path, if applicable
	Message string
	Err     error // Underlying error, if any
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Path != "" {
		return fmt.Sprintf("failed to decode %s %s: %s", e.Format, e.Path, msg)
	}
	return fmt.Sprintf("failed to decode %s: %s", e.Format, msg)
}

// Unwrap always reaches ErrInvalidInput, plus the cause when there is one.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// UnsupportedError represents an unknown format or a missing codec operation
type UnsupportedError struct {
	Feature string // Format or operation
	Reason  string
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewAmbiguous creates an AmbiguousError
func NewAmbiguous(input string, candidates ...string) *AmbiguousError {
	return &AmbiguousError{Input: input, Candidates: candidates}
}

// NewValidation creates a ValidationError
func NewValidation(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError wrapping err, which may be nil.
func NewParse(format, path, message string, err error) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message, Err: err}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target any) bool {
	return errors.As(err, target)
}
