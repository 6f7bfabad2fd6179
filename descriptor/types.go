package descriptor

import (
	"github.com/grovetools/hookplan/errors"
)

// Schedule is how often the CI bot re-pins repository revisions.
type Schedule string

const (
	ScheduleWeekly    Schedule = "weekly"
	ScheduleMonthly   Schedule = "monthly"
	ScheduleQuarterly Schedule = "quarterly"
	ScheduleNever     Schedule = "never"
)

// Schedules lists every accepted autoupdate_schedule value.
var Schedules = []Schedule{ScheduleWeekly, ScheduleMonthly, ScheduleQuarterly, ScheduleNever}

// Valid reports whether s is one of Schedules.
func (s Schedule) Valid() bool {
	for _, known := range Schedules {
		if s == known {
			return true
		}
	}
	return false
}

// Default values applied by the CI bot when a ci field is absent.
const (
	DefaultAutofixCommitMsg    = "[pre-commit.ci] auto fixes from pre-commit.com hooks\n\nfor more information, see https://pre-commit.ci"
	DefaultAutoupdateCommitMsg = "[pre-commit.ci] pre-commit autoupdate"
	DefaultAutoupdateSchedule  = ScheduleWeekly
)

// HookInvocation is one entry of a repository block's hooks list.
type HookInvocation struct {
	ID                     string   `yaml:"id" json:"id" mapstructure:"id" jsonschema:"minLength=1,description=Identifier of a hook provided by the repository"`
	Name                   string   `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name" jsonschema:"description=Display name override"`
	Alias                  string   `yaml:"alias,omitempty" json:"alias,omitempty" mapstructure:"alias" jsonschema:"description=Additional id the hook can be referred to by"`
	Files                  string   `yaml:"files,omitempty" json:"files,omitempty" mapstructure:"files" jsonschema:"description=Regular expression selecting the paths the hook applies to"`
	Exclude                string   `yaml:"exclude,omitempty" json:"exclude,omitempty" mapstructure:"exclude" jsonschema:"description=Regular expression removing paths from consideration"`
	Types                  []string `yaml:"types,omitempty" json:"types,omitempty" mapstructure:"types" jsonschema:"description=File types that must all match"`
	TypesOr                []string `yaml:"types_or,omitempty" json:"types_or,omitempty" mapstructure:"types_or" jsonschema:"description=File types of which any must match"`
	ExcludeTypes           []string `yaml:"exclude_types,omitempty" json:"exclude_types,omitempty" mapstructure:"exclude_types" jsonschema:"description=File types removed from consideration"`
	Args                   []string `yaml:"args,omitempty" json:"args,omitempty" mapstructure:"args" jsonschema:"description=Ordered arguments passed to the hook"`
	AdditionalDependencies []string `yaml:"additional_dependencies,omitempty" json:"additional_dependencies,omitempty" mapstructure:"additional_dependencies" jsonschema:"description=Dependency specifiers added to the hook environment"`
	Stages                 []string `yaml:"stages,omitempty" json:"stages,omitempty" mapstructure:"stages" jsonschema:"description=Git hook stages the hook runs in"`
	AlwaysRun              *bool    `yaml:"always_run,omitempty" json:"always_run,omitempty" mapstructure:"always_run" jsonschema:"description=Run even when no files match"`
	PassFilenames          *bool    `yaml:"pass_filenames,omitempty" json:"pass_filenames,omitempty" mapstructure:"pass_filenames" jsonschema:"description=Pass matching filenames to the hook"`

	// Extra holds keys this version does not model. They are kept so that
	// re-serializing a descriptor loses nothing.
	Extra map[string]interface{} `yaml:",inline" json:"extra,omitempty" mapstructure:",remain" jsonschema:"-"`
}

// DisplayName returns the name override, falling back to the id.
func (h HookInvocation) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// RepositoryReference is a pinned hook source and the hooks used from it.
type RepositoryReference struct {
	Location string           `yaml:"repo" json:"repo" mapstructure:"repo" jsonschema:"minLength=1,description=URL of the hook repository"`
	Revision string           `yaml:"rev" json:"rev" mapstructure:"rev" jsonschema:"minLength=1,description=Pinned tag or commit"`
	Hooks    []HookInvocation `yaml:"hooks" json:"hooks" mapstructure:"hooks" jsonschema:"minItems=1,description=Hooks used from this repository"`

	Extra map[string]interface{} `yaml:",inline" json:"extra,omitempty" mapstructure:",remain" jsonschema:"-"`
}

// CIPolicy governs the external CI bot. It is built once per load and
// handed to consumers by value.
type CIPolicy struct {
	AutofixCommitMsg    string   `yaml:"autofix_commit_msg" json:"autofix_commit_msg"`
	AutofixPRs          bool     `yaml:"autofix_prs" json:"autofix_prs"`
	AutoupdateBranch    string   `yaml:"autoupdate_branch" json:"autoupdate_branch"`
	AutoupdateCommitMsg string   `yaml:"autoupdate_commit_msg" json:"autoupdate_commit_msg"`
	AutoupdateSchedule  Schedule `yaml:"autoupdate_schedule" json:"autoupdate_schedule"`
	Skip                []string `yaml:"skip" json:"skip"`
	Submodules          bool     `yaml:"submodules" json:"submodules"`

	Extra map[string]interface{} `yaml:",inline" json:"extra,omitempty"`
}

// DefaultCIPolicy returns the policy the bot uses when no ci block is given.
func DefaultCIPolicy() CIPolicy {
	return CIPolicy{
		AutofixCommitMsg:    DefaultAutofixCommitMsg,
		AutofixPRs:          true,
		AutoupdateCommitMsg: DefaultAutoupdateCommitMsg,
		AutoupdateSchedule:  DefaultAutoupdateSchedule,
		Skip:                []string{},
	}
}

// SkipsHook reports whether the bot omits the hook with the given id or alias.
func (p CIPolicy) SkipsHook(id string) bool {
	for _, s := range p.Skip {
		if s == id {
			return true
		}
	}
	return false
}

// UsesDefaultBranch reports whether autoupdate PRs target the repository's default branch.
func (p CIPolicy) UsesDefaultBranch() bool {
	return p.AutoupdateBranch == ""
}

// Descriptor is the validated in-memory model of one hook-pipeline document.
type Descriptor struct {
	Repos []RepositoryReference
	CI    CIPolicy
	// CIDeclared is false when the document had no ci block and CI holds defaults.
	CIDeclared bool

	Files          string
	Exclude        string
	FailFast       bool
	DefaultStages  []string
	MinimumVersion string

	Extra map[string]interface{}

	// Warnings are non-fatal findings such as unknown fields.
	Warnings []errors.FieldError
}

// Policy returns the CI policy.
func (d *Descriptor) Policy() CIPolicy {
	return d.CI
}

// HookIDs returns every declared hook id and alias in document order.
func (d *Descriptor) HookIDs() []string {
	var ids []string
	for _, repo := range d.Repos {
		for _, hook := range repo.Hooks {
			ids = append(ids, hook.ID)
			if hook.Alias != "" {
				ids = append(ids, hook.Alias)
			}
		}
	}
	return ids
}
