// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

/*
Package apperr defines the centralized error taxonomy for Backbone.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and the uniform HTTP error envelope.

Architecture:

  - AppError: A closed tagged-variant with {Category, HTTPStatus, Message}.
  - Categories: GENERAL, VALIDATION, SECURITY (the complete vocabulary).
  - Mapping: errors.As at the respond boundary; never open-ended subclassing.

Every error that leaves the service layer should be wrapped as an [AppError] to
ensure consistent API responses. Anything unclassified is surfaced to clients
as a generic 500 GENERAL failure.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Category is the closed set of failure classes exposed on the wire.
type Category string

const (
	// CategoryGeneral covers internal and upstream communication failures.
	CategoryGeneral Category = "GENERAL"

	// CategoryValidation covers malformed, missing, or out-of-range input.
	// Missing resources are also reported under this category; the envelope
	// shape is load-bearing for downstream consumers, so NotFound stays here.
	CategoryValidation Category = "VALIDATION"

	// CategorySecurity covers forbidden and unauthorized requests.
	CategorySecurity Category = "SECURITY"
)

// AppError is the canonical error type for the Backbone API.
//
// It carries an HTTP status code, an error category, a client-safe message,
// and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Category is the wire-visible failure class.
	Category Category `json:"-"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"-"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Fields holds per-field validation errors for VALIDATION responses.
	Fields []FieldError `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
	// Missing marks a field that was absent entirely, as opposed to present
	// but invalid. It changes how the clause is rendered.
	Missing bool `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Detail() }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Detail renders the client-facing message. When field errors are attached,
// they are concatenated space-separated, one clause per offending field:
//
//	'email' is Required. Must be a string: age
func (e *AppError) Detail() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	clauses := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		if field.Missing {
			clauses = append(clauses, fmt.Sprintf("'%s' is Required.", field.Field))
		} else {
			clauses = append(clauses, fmt.Sprintf("%s: %s", field.Message, field.Field))
		}
	}
	return strings.Join(clauses, " ")
}

// Envelope returns the uniform JSON error body:
//
//	{"errors": {"<CATEGORY>": "<message>"}}
func (e *AppError) Envelope() map[string]map[Category]string {
	return map[string]map[Category]string{
		"errors": {e.Category: e.Detail()},
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError].
//
// Missing resources are deliberately reported under the VALIDATION category;
// the envelope shape predates this service and downstream consumers key on it.
func NotFound() *AppError {
	return &AppError{
		Category:   CategoryValidation,
		Message:    "Resource Not Found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Validation creates a 422 [AppError] with optional per-field details.
func Validation(msg string, fields ...FieldError) *AppError {
	if msg == "" {
		msg = "Invalid Request."
	}
	return &AppError{
		Category:   CategoryValidation,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

// InvalidJSON creates the 422 [AppError] returned for unparseable bodies.
func InvalidJSON() *AppError {
	return Validation("Invalid JSON")
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	if msg == "" {
		msg = "Request Unauthorized."
	}
	return &AppError{
		Category:   CategorySecurity,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	if msg == "" {
		msg = "Forbidden Request."
	}
	return &AppError{
		Category:   CategorySecurity,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// # Server Errors (5xx)

// GenericMessage is the only text a client ever sees for unclassified failures.
const GenericMessage = "An internal server error has occurred. Our technical team has been notified."

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Category:   CategoryGeneral,
		Message:    GenericMessage,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ExternalCommunicationFailure creates a 503 [AppError] for upstream faults.
func ExternalCommunicationFailure(cause error) *AppError {
	return &AppError{
		Category:   CategoryGeneral,
		Message:    "Failed to communicate with an external resource.",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) lives in [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
