package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hookplan/errors"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// RenderValidation prints every violation and warning, one per line.
func RenderValidation(w io.Writer, v *errors.ValidationErrors) {
	if v == nil {
		return
	}
	if len(v.Errors) > 0 {
		fmt.Fprintf(w, "%s %d validation error(s):\n", errorStyle.Render("✗"), len(v.Errors))
		for _, f := range v.Errors {
			renderField(w, errorStyle.Render("error  "), f)
		}
	}
	RenderWarnings(w, v.Warnings)
	if v.Aborted {
		fmt.Fprintln(w, faintStyle.Render("validation stopped early: document structure is unusable"))
	}
}

// RenderWarnings prints non-fatal findings.
func RenderWarnings(w io.Writer, warnings []errors.FieldError) {
	for _, f := range warnings {
		renderField(w, warningStyle.Render("warning"), f)
	}
}

// RenderSuccess prints the confirmation line for a valid descriptor.
func RenderSuccess(w io.Writer, path string, hooks int) {
	fmt.Fprintf(w, "%s %s is valid (%d hook invocation(s))\n", successStyle.Render("✓"), pathStyle.Render(path), hooks)
}

func renderField(w io.Writer, label string, f errors.FieldError) {
	pos := ""
	if f.Line > 0 {
		pos = faintStyle.Render(fmt.Sprintf("%d:%d ", f.Line, f.Column))
	}
	repo := ""
	if f.Repo != "" {
		repo = faintStyle.Render(fmt.Sprintf(" (repo %s)", f.Repo))
	}
	fmt.Fprintf(w, "  %s %s%s%s: %s %s\n", label, pos, pathStyle.Render(f.Path), repo, f.Reason, faintStyle.Render("["+string(f.Code)+"]"))
}
