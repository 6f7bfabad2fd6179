package errors

import (
	"fmt"
)

// DescriptorNotFound creates a descriptor not found error
func DescriptorNotFound(path string) *DescriptorError {
	return New(ErrCodeDescriptorNotFound, fmt.Sprintf("hook descriptor not found: %s", path)).
		WithDetail("path", path)
}

// DescriptorParse creates a parse error for a document that is not valid YAML or TOML
func DescriptorParse(err error, format string) *DescriptorError {
	return Wrap(err, ErrCodeDescriptorParse, fmt.Sprintf("failed to parse %s descriptor", format)).
		WithDetail("format", format)
}

// DescriptorInvalid creates an invalid descriptor error
func DescriptorInvalid(reason string) *DescriptorError {
	return New(ErrCodeDescriptorInvalid, fmt.Sprintf("invalid descriptor: %s", reason))
}

// ValidationFailed wraps a collected set of violations
func ValidationFailed(v *ValidationErrors) *DescriptorError {
	return Wrap(v, ErrCodeDescriptorValidation,
		fmt.Sprintf("descriptor validation failed with %d error(s)", len(v.Errors))).
		WithDetail("count", len(v.Errors))
}

// UnsupportedFormat creates an error for an unknown export/import format
func UnsupportedFormat(format string) *DescriptorError {
	return New(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format '%s'", format)).
		WithDetail("format", format)
}
