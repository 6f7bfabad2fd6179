package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationCode names a single descriptor rule that was violated.
type ValidationCode string

const (
	// Structural violations. The first three stop validation of the document.
	CodeDocumentNotMapping ValidationCode = "DOCUMENT_NOT_MAPPING"
	CodeReposMissing       ValidationCode = "REPOS_MISSING"
	CodeReposNotSequence   ValidationCode = "REPOS_NOT_SEQUENCE"
	CodeRepoNotMapping     ValidationCode = "REPO_NOT_MAPPING"
	CodeHooksMissing       ValidationCode = "HOOKS_MISSING"
	CodeHooksNotSequence   ValidationCode = "HOOKS_NOT_SEQUENCE"
	CodeHookNotMapping     ValidationCode = "HOOK_NOT_MAPPING"
	CodeCINotMapping       ValidationCode = "CI_NOT_MAPPING"
	CodeWrongType          ValidationCode = "WRONG_TYPE"
	CodeDuplicateKey       ValidationCode = "DUPLICATE_KEY"
	CodeInvalidMerge       ValidationCode = "INVALID_MERGE"
	CodeRecursiveAlias     ValidationCode = "RECURSIVE_ALIAS"
	CodeComplexKey         ValidationCode = "COMPLEX_KEY"

	// Semantic violations.
	CodeRepoLocationMissing ValidationCode = "REPO_LOCATION_MISSING"
	CodeRepoLocationEmpty   ValidationCode = "REPO_LOCATION_EMPTY"
	CodeRevisionMissing     ValidationCode = "REVISION_MISSING"
	CodeRevisionEmpty       ValidationCode = "REVISION_EMPTY"
	CodeHooksEmpty          ValidationCode = "HOOKS_EMPTY"
	CodeHookIDMissing       ValidationCode = "HOOK_ID_MISSING"
	CodeHookIDEmpty         ValidationCode = "HOOK_ID_EMPTY"
	CodeArgsNotSequence     ValidationCode = "ARGS_NOT_SEQUENCE"
	CodeArgNotString        ValidationCode = "ARG_NOT_STRING"
	CodeNotStringSequence   ValidationCode = "NOT_STRING_SEQUENCE"
	CodeInvalidRegex        ValidationCode = "INVALID_REGEX"
	CodeInvalidSchedule     ValidationCode = "INVALID_SCHEDULE"
	CodeSkipNotSequence     ValidationCode = "SKIP_NOT_SEQUENCE"
	CodeSkipNotString       ValidationCode = "SKIP_NOT_STRING"
	CodeDanglingSkip        ValidationCode = "DANGLING_SKIP"
	CodeInvalidVersion      ValidationCode = "INVALID_VERSION"
	CodeSchemaViolation     ValidationCode = "SCHEMA_VIOLATION"

	// Warnings.
	CodeUnknownField ValidationCode = "UNKNOWN_FIELD"
)

// Severity distinguishes fatal violations from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldError is a machine-readable record of one violation: which field, why,
// and where in the source document.
type FieldError struct {
	Code     ValidationCode `json:"code"`
	Severity Severity       `json:"severity"`
	Path     string         `json:"path"`
	Reason   string         `json:"reason"`
	// Repo is the location of the enclosing repository block, when known.
	Repo   string `json:"repo,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (f FieldError) Error() string {
	var b strings.Builder
	if f.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", f.Line, f.Column)
	}
	b.WriteString(f.Path)
	if f.Repo != "" {
		fmt.Fprintf(&b, " (repo %s)", f.Repo)
	}
	fmt.Fprintf(&b, ": %s [%s]", f.Reason, f.Code)
	return b.String()
}

// ValidationErrors collects every violation found in one document.
type ValidationErrors struct {
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
	// Aborted is set when a structural error stopped validation early.
	Aborted bool `json:"aborted,omitempty"`
}

// Add records a fatal violation.
func (v *ValidationErrors) Add(f FieldError) {
	f.Severity = SeverityError
	v.Errors = append(v.Errors, f)
}

// Warn records a non-fatal finding.
func (v *ValidationErrors) Warn(f FieldError) {
	f.Severity = SeverityWarning
	v.Warnings = append(v.Warnings, f)
}

// Merge appends everything from other.
func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
	v.Aborted = v.Aborted || other.Aborted
}

// HasErrors reports whether any fatal violation was recorded.
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// Sort orders errors and warnings by source position. Records without a
// position keep their relative order and sort after positioned ones.
func (v *ValidationErrors) Sort() {
	sortByPosition(v.Errors)
	sortByPosition(v.Warnings)
}

func sortByPosition(list []FieldError) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Line == 0 || b.Line == 0 {
			return a.Line != 0 && b.Line == 0
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Codes returns the violation codes in order.
func (v *ValidationErrors) Codes() []ValidationCode {
	codes := make([]ValidationCode, 0, len(v.Errors))
	for _, e := range v.Errors {
		codes = append(codes, e.Code)
	}
	return codes
}

// Find returns the first error at path, if any.
func (v *ValidationErrors) Find(path string) (FieldError, bool) {
	for _, e := range v.Errors {
		if e.Path == path {
			return e, true
		}
	}
	return FieldError{}, false
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}
	lines := make([]string, 0, len(v.Errors)+1)
	lines = append(lines, fmt.Sprintf("%d validation errors:", len(v.Errors)))
	for _, e := range v.Errors {
		lines = append(lines, "- "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// AsValidation extracts the collected violations from err, if it carries any.
func AsValidation(err error) (*ValidationErrors, bool) {
	var v *ValidationErrors
	if stderrors.As(err, &v) {
		return v, true
	}
	return nil, false
}
