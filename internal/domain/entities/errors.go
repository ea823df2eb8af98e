package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is a stable machine-readable code carried by domain errors. All
// codes except CodeParse describe grounding or validation failures that are
// recoverable by the caller.
type ErrorCode string

const (
	CodeEntityNotFound      ErrorCode = "entity_not_found"
	CodePropertyNotFound    ErrorCode = "property_not_found"
	CodePropertyNotEditable ErrorCode = "property_not_editable"
	CodeInvalidValue        ErrorCode = "invalid_value"
	CodeValidation          ErrorCode = "validation_error"
	CodeParse               ErrorCode = "parse_error"
)

// DomainError is a typed, recoverable failure surfaced to the caller. The
// message is used verbatim in API error payloads.
type DomainError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
}

func (e *DomainError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("%s (did you mean: %s)", e.Message, strings.Join(e.Suggestions, ", "))
	}
	return e.Message
}

// NewEntityNotFound reports a reference that matched no resolution stage.
func NewEntityNotFound(ref string) *DomainError {
	return &DomainError{
		Code:    CodeEntityNotFound,
		Message: fmt.Sprintf("no entity matches reference %q", ref),
	}
}

// NewPropertyNotFound reports a phrase unresolved against both the twin
// schema and the telemetry schema, with ranked suggestions.
func NewPropertyNotFound(phrase string, suggestions []string) *DomainError {
	return &DomainError{
		Code:        CodePropertyNotFound,
		Message:     fmt.Sprintf("no property matches %q", phrase),
		Suggestions: suggestions,
	}
}

// NewPropertyNotEditable reports a write against a read-only property or a
// telemetry field.
func NewPropertyNotEditable(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    CodePropertyNotEditable,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInvalidValue reports a type, range or allowed-values violation.
func NewInvalidValue(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    CodeInvalidValue,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewValidationError reports a generic constraint failure.
func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewParseError reports an intent-parser failure, distinct from grounding
// and validation errors.
func NewParseError(err error) *DomainError {
	return &DomainError{
		Code:    CodeParse,
		Message: fmt.Sprintf("parsing intent: %v", err),
	}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
