// Package fault provides a small typed-error value used across the
// compiler and its demo server, generalizing the coded-error pattern
// the teacher repo used for its HTTP layer to the compiler's own
// LexError/ParseError/ValueError vocabulary (spec §4.4, §7).
package fault

import "fmt"

type Code string

const (
	UnknownCode          Code = "unknown"
	NotFoundCode         Code = "not_found"
	BadInputCode         Code = "bad_input"
	PermissionDeniedCode Code = "permission_denied"

	// LexCode marks a lexer error: unmatched parenthesis or a
	// malformed escape sequence (spec §4.1).
	LexCode Code = "lex_error"
	// ParseCode marks a parser error: missing operand/operator
	// on the postfix fold stack (spec §4.3).
	ParseCode Code = "parse_error"
	// ValueCode marks a term-analyzer ValueError: a literal failed
	// type validation for its declared field type (spec §4.2).
	ValueCode Code = "value_error"
)

// FieldErrorsMetadata maps a field/input name to the list of problems
// found with it, mirroring the shape the teacher's api layer renders
// as a 422 response body.
type FieldErrorsMetadata map[string][]string

// Fault is the interface satisfied by this package's error value. It is
// declared explicitly here, unlike the teacher repo where api/errors.go
// referenced a fault.Fault type the fault package never exported.
type Fault interface {
	error
	Code() Code
	Message() string
	Metadata() any
	Unwrap() error
	WithMetadata(metadata any) Fault
	WithOriginal(original error) Fault
}

type fault struct {
	code     Code
	message  string
	metadata any
	original error
}

// New creates a Fault with the given code and human-readable message.
func New(code Code, message string) Fault {
	return fault{code: code, message: message}
}

// WithMetadata attaches structured context (e.g. FieldErrorsMetadata) to
// the fault and returns the updated value.
func (f fault) WithMetadata(metadata any) Fault {
	f.metadata = metadata
	return f
}

// WithOriginal wraps an underlying error (e.g. a strconv.ParseInt failure)
// so callers can still errors.Unwrap through to it.
func (f fault) WithOriginal(original error) Fault {
	f.original = original
	return f
}

func (f fault) Code() Code      { return f.code }
func (f fault) Message() string { return f.message }
func (f fault) Metadata() any   { return f.metadata }
func (f fault) Unwrap() error   { return f.original }

func (f fault) Error() string {
	if f.original != nil {
		return fmt.Sprintf("%s: %v", f.message, f.original)
	}
	return f.message
}
