package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Descriptor errors
	ErrCodeDescriptorNotFound   ErrorCode = "DESCRIPTOR_NOT_FOUND"
	ErrCodeDescriptorParse      ErrorCode = "DESCRIPTOR_PARSE"
	ErrCodeDescriptorInvalid    ErrorCode = "DESCRIPTOR_INVALID"
	ErrCodeDescriptorValidation ErrorCode = "DESCRIPTOR_VALIDATION"

	// Export errors
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// DescriptorError represents a structured error with context
type DescriptorError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DescriptorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DescriptorError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *DescriptorError) WithDetail(key string, value interface{}) *DescriptorError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON. Validation causes are inlined under
// "violations" so callers get the field records without re-parsing Error().
func (e *DescriptorError) ToJSON() string {
	type payload struct {
		*DescriptorError
		Violations []FieldError `json:"violations,omitempty"`
		Warnings   []FieldError `json:"warnings,omitempty"`
	}
	p := payload{DescriptorError: e}
	if v, ok := AsValidation(e); ok {
		p.Violations = v.Errors
		p.Warnings = v.Warnings
	}
	data, _ := json.MarshalIndent(p, "", "  ")
	return string(data)
}

// New creates a new DescriptorError
func New(code ErrorCode, message string) *DescriptorError {
	return &DescriptorError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DescriptorError
func Wrap(err error, code ErrorCode, message string) *DescriptorError {
	return &DescriptorError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific DescriptorError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	descErr, ok := err.(*DescriptorError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if descErr.Code == code {
		return true
	}
	if descErr.Cause != nil {
		return Is(descErr.Cause, code)
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	descErr, ok := err.(*DescriptorError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return descErr.Code
}
