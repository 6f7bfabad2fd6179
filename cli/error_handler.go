package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/hookplan/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	JSON    bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose, jsonOutput bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		JSON:    jsonOutput,
		Out:     os.Stderr,
	}
}

// Handle reports err to the user and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	if h.JSON {
		if descErr, ok := err.(*errors.DescriptorError); ok {
			fmt.Fprintln(out, descErr.ToJSON())
		} else {
			fmt.Fprintln(out, errors.Wrap(err, errors.ErrCodeInternal, "command failed").ToJSON())
		}
		return err
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeDescriptorNotFound:
		fmt.Fprintf(out, "%s No hook descriptor found. Pass a path or create %s.\n",
			errorStyle.Render("✗"), "'.pre-commit-config.yaml'")

	case errors.ErrCodeDescriptorValidation:
		v, _ := errors.AsValidation(err)
		RenderValidation(out, v)

	case errors.ErrCodeDescriptorParse:
		fmt.Fprintf(out, "%s Descriptor is not well-formed: %v\n", errorStyle.Render("✗"), causeOf(err))

	case errors.ErrCodeUnsupportedFormat:
		fmt.Fprintf(out, "%s %v\n", errorStyle.Render("✗"), err)
		fmt.Fprintln(out, "Supported formats: yaml, toml")

	default:
		fmt.Fprintf(out, "%s Error: %v\n", errorStyle.Render("✗"), err)
	}

	if h.Verbose {
		if descErr, ok := err.(*errors.DescriptorError); ok {
			fmt.Fprintf(out, "\nError details:\n%s\n", descErr.ToJSON())
		}
	}
	return err
}

func causeOf(err error) error {
	if descErr, ok := err.(*errors.DescriptorError); ok && descErr.Cause != nil {
		return descErr.Cause
	}
	return err
}
