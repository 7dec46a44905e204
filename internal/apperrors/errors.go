package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Kind is the wire-visible error classification. The kind string is what
// clients switch on; the HTTP status is derived from it in one place.
type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindImmutableField     Kind = "immutable_field"
	KindConflict           Kind = "conflict"
	KindNotFound           Kind = "not_found"
	KindInvalidTransition  Kind = "invalid_transition"
	KindConflictingFilters Kind = "conflicting_filters"
	KindAuthentication     Kind = "authentication_required"
	KindMethodNotAllowed   Kind = "method_not_allowed"
	KindInternal           Kind = "internal_error"
)

// FieldError attributes a validation failure to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type crossing controller boundaries. Handlers
// never inspect anything else; the server's ErrorHandler renders it into
// the uniform response body.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(fields, ", "))
}

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindImmutableField, KindInvalidTransition:
		return fiber.StatusUnprocessableEntity
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflictingFilters:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindMethodNotAllowed:
		return fiber.StatusMethodNotAllowed
	default:
		return fiber.StatusInternalServerError
	}
}

// As unwraps err into an *Error when possible.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Validation reports one or more field-attributed input failures. Callers
// collect every offending field before constructing it, batched rather than
// fail-fast.
func Validation(details ...FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "Invalid request data",
		Details: details,
	}
}

// ImmutableFields rejects an update touching fields fixed at creation,
// distinctly from value validation so callers can tell "not allowed" from
// "invalid".
func ImmutableFields(fields ...string) *Error {
	details := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		details = append(details, FieldError{Field: f, Message: "field is immutable"})
	}
	return &Error{
		Kind:    KindImmutableField,
		Message: "Request attempts to modify immutable fields",
		Details: details,
	}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NotFound covers both missing and not-owned resources. The two are
// deliberately indistinguishable so existence of other users' data never
// leaks.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("Invalid status transition from %s to %s", from, to),
	}
}

func ConflictingFilters(message string) *Error {
	return &Error{Kind: KindConflictingFilters, Message: message}
}

func Authentication() *Error {
	return &Error{Kind: KindAuthentication, Message: "Authentication required"}
}

func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
