// Package domainerrors defines the error taxonomy shared by all services.
//
// Services return these errors; the HTTP layer translates codes to status
// codes. Stores return sentinel errors (pkg/platform/sentinel) and services
// wrap them into domain errors with context, so the transport never needs to
// know about storage internals.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and assertions.
type Code string

const (
	// CodeUnauthorized means the caller presented no credential or an
	// invalid one. Raised at the transport boundary.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden means the caller is authenticated but its organization
	// credential or ownership relation does not permit the operation.
	CodeForbidden Code = "forbidden"
	// CodeNotFound means a referenced record id is absent from the ledger.
	CodeNotFound Code = "not_found"
	// CodeInvalidState means a status precondition for the requested
	// transition is not met (e.g. starting a survey twice).
	CodeInvalidState Code = "invalid_state"
	// CodePreconditionFailed means a cross-record business rule blocked the
	// operation (e.g. unverified findings blocking certificate issuance).
	CodePreconditionFailed Code = "precondition_failed"
	// CodeInvalidInput means a required argument is missing or malformed.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest means the request itself could not be parsed.
	CodeBadRequest Code = "bad_request"
	// CodeConflict means the write collided with existing state.
	CodeConflict Code = "conflict"
	// CodeInternal covers unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is treat two domain errors with the same code as equal,
// regardless of message or cause.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return e.Code == te.Code
	}
	return false
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from an error chain, defaulting to CodeInternal
// for errors that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message, falling back to Error().
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
