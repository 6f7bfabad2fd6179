package descriptor

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/hookplan/errors"
	"github.com/grovetools/hookplan/schema"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// schemaCI carries the CI policy fields with schema annotations. CIPolicy
// itself is the resolved value with defaults applied, so every field there
// looks required to the reflector.
type schemaCI struct {
	AutofixCommitMsg    string   `yaml:"autofix_commit_msg,omitempty" jsonschema:"description=Commit message for autofix commits"`
	AutofixPRs          bool     `yaml:"autofix_prs,omitempty" jsonschema:"description=Push autofix commits to pull requests"`
	AutoupdateBranch    string   `yaml:"autoupdate_branch,omitempty" jsonschema:"description=Branch autoupdate PRs target; empty means the default branch"`
	AutoupdateCommitMsg string   `yaml:"autoupdate_commit_msg,omitempty" jsonschema:"description=Commit message for autoupdate commits"`
	AutoupdateSchedule  string   `yaml:"autoupdate_schedule,omitempty" jsonschema:"enum=weekly,enum=monthly,enum=quarterly,enum=never,description=How often revisions are re-pinned"`
	Skip                []string `yaml:"skip,omitempty" jsonschema:"description=Hook ids the bot does not run"`
	Submodules          bool     `yaml:"submodules,omitempty" jsonschema:"description=Check out submodules before running hooks"`
}

// GenerateSchema reflects the descriptor types into a JSON Schema document.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are warnings in normal loads; the schema is the strict view.
		AllowAdditionalProperties: false,
		FieldNameTag:              "yaml",
	}

	type document struct {
		Repos          []RepositoryReference `yaml:"repos" jsonschema:"description=Hook repositories in execution order"`
		CI             *schemaCI             `yaml:"ci,omitempty"`
		Files          string                `yaml:"files,omitempty" jsonschema:"description=Regular expression every hook's files must also match"`
		Exclude        string                `yaml:"exclude,omitempty" jsonschema:"description=Regular expression excluding paths from every hook"`
		FailFast       bool                  `yaml:"fail_fast,omitempty" jsonschema:"description=Stop after the first failing hook"`
		DefaultStages  []string              `yaml:"default_stages,omitempty" jsonschema:"description=Stages used by hooks that do not name their own"`
		MinimumVersion string                `yaml:"minimum_pre_commit_version,omitempty" jsonschema:"description=Lowest runner version able to run this descriptor"`
	}

	s := r.Reflect(&document{})
	s.Title = "Hook Pipeline Descriptor"
	s.Description = "Schema for .pre-commit-config.yaml style hook-pipeline descriptors."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}

// validateSchema runs the embedded JSON schema over a parsed document.
func validateSchema(root *yaml.Node) (*errors.ValidationErrors, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create schema validator")
	}

	var generic interface{}
	if err := root.Decode(&generic); err != nil {
		return nil, errors.DescriptorParse(fmt.Errorf("decode for schema validation: %w", err), "yaml")
	}

	violations, err := validator.Validate(stringKeys(generic))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "schema validation could not run")
	}

	v := &errors.ValidationErrors{}
	for _, violation := range violations {
		v.Add(errors.FieldError{
			Code:   errors.CodeSchemaViolation,
			Path:   schema.PointerToPath(violation.Location),
			Reason: violation.Message,
		})
	}
	return v, nil
}
