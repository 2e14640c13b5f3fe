// Package domainerrors defines the typed error values shared between the
// registry services and the HTTP boundary. Services return these instead of
// writing status codes themselves; the transport layer owns the translation.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a failure independently of transport.
type Code string

const (
	// CodeValidation marks malformed or out-of-range client input.
	CodeValidation Code = "validation"
	// CodeReference marks a missing referenced entity or a uniqueness violation.
	CodeReference Code = "reference"
	// CodeNotFound marks a fetch of an entity that does not exist.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks a rejected credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks everything the caller cannot fix.
	CodeInternal Code = "internal"
)

// Error carries a code for machine handling and a detail string that is safe
// to show to the caller.
type Error struct {
	Code   Code
	Detail string
}

func (e Error) Error() string { return e.Detail }

// New builds a domain error with the given code and caller-visible detail.
func New(code Code, detail string) Error {
	return Error{Code: code, Detail: detail}
}

// Is reports whether err is (or wraps) a domain error with the given code.
func Is(err error, code Code) bool {
	var de Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to its HTTP status. Validation and referential
// failures share 422: both are client errors against a well-formed route.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeReference:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
