// Package errors defines the error taxonomy the HTTP API speaks. A
// handler classifies every failure it returns; the class picks the
// HTTP status and the log level, and any key/value fields attached to
// the error travel into both the log record and the JSON body.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType names the failure class of an API error.
type ErrorType string

const (
	TypeValidation ErrorType = "validation" // rejected input, 400
	TypeNotFound   ErrorType = "not_found"  // unknown barcode, item, or location, 404
	TypeConflict   ErrorType = "conflict"   // double-submitted declaration batch, 409
	TypeInternal   ErrorType = "internal"   // database or programming failure, 500
)

var httpStatus = map[ErrorType]int{
	TypeValidation: http.StatusBadRequest,
	TypeNotFound:   http.StatusNotFound,
	TypeConflict:   http.StatusConflict,
	TypeInternal:   http.StatusInternalServerError,
}

// Error is a classified API error. Fields holds request identifiers
// (locid, barcode, itemid) that give the log line and the client
// something to act on.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]any
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Fields: make(map[string]any)}
}

// ValidationError rejects bad input.
func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

// NotFoundError reports a barcode, item, or location that does not exist.
func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

// ConflictError reports a request the current state refuses, such as a
// declaration batch caught by the double-submit guard.
func ConflictError(message string) *Error {
	return newError(TypeConflict, message, nil)
}

// InternalError wraps an unexpected failure. The cause is logged but
// never sent to the client.
func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the response status for the error's type.
// Unknown types are treated as internal.
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithField attaches a key/value pair to the error. Chainable.
func (e *Error) WithField(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// Response is the JSON body written for a failed request.
type Response struct {
	Error  string         `json:"error"`
	Type   ErrorType      `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

// ToResponse renders the error for the client. The cause stays out of
// the body.
func (e *Error) ToResponse() Response {
	return Response{
		Error:  e.Message,
		Type:   e.Type,
		Fields: e.Fields,
	}
}

// AsStructuredError returns err's *Error if it carries one anywhere in
// its chain, or wraps it as an internal error. Nil stays nil.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	return InternalError("internal server error", err)
}
