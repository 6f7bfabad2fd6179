package descriptor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// rawDocument mirrors the top level of a descriptor for decoding. Keys it
// does not name are gathered in Extra.
type rawDocument struct {
	Repos          []RepositoryReference  `mapstructure:"repos"`
	CI             *rawCI                 `mapstructure:"ci"`
	Files          string                 `mapstructure:"files"`
	Exclude        string                 `mapstructure:"exclude"`
	FailFast       bool                   `mapstructure:"fail_fast"`
	DefaultStages  []string               `mapstructure:"default_stages"`
	MinimumVersion string                 `mapstructure:"minimum_pre_commit_version"`
	Extra          map[string]interface{} `mapstructure:",remain"`
}

// rawCI uses pointers so that absent fields can take the bot's defaults.
type rawCI struct {
	AutofixCommitMsg    *string                `mapstructure:"autofix_commit_msg"`
	AutofixPRs          *bool                  `mapstructure:"autofix_prs"`
	AutoupdateBranch    *string                `mapstructure:"autoupdate_branch"`
	AutoupdateCommitMsg *string                `mapstructure:"autoupdate_commit_msg"`
	AutoupdateSchedule  *string                `mapstructure:"autoupdate_schedule"`
	Skip                []string               `mapstructure:"skip"`
	Submodules          *bool                  `mapstructure:"submodules"`
	Extra               map[string]interface{} `mapstructure:",remain"`
}

// build decodes an already validated document into the model.
func build(root *yaml.Node) (*Descriptor, error) {
	var decoded interface{}
	if err := root.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}
	generic, ok := stringKeys(decoded).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("descriptor decoded to %T, not a mapping", decoded)
	}

	var raw rawDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor: %w", err)
	}

	d := &Descriptor{
		Repos:          raw.Repos,
		CI:             DefaultCIPolicy(),
		Files:          raw.Files,
		Exclude:        raw.Exclude,
		FailFast:       raw.FailFast,
		DefaultStages:  raw.DefaultStages,
		MinimumVersion: raw.MinimumVersion,
		Extra:          raw.Extra,
	}
	if raw.CI != nil {
		d.CIDeclared = true
		applyCI(&d.CI, raw.CI)
	}
	return d, nil
}

func applyCI(p *CIPolicy, raw *rawCI) {
	if raw.AutofixCommitMsg != nil {
		p.AutofixCommitMsg = *raw.AutofixCommitMsg
	}
	if raw.AutofixPRs != nil {
		p.AutofixPRs = *raw.AutofixPRs
	}
	if raw.AutoupdateBranch != nil {
		p.AutoupdateBranch = *raw.AutoupdateBranch
	}
	if raw.AutoupdateCommitMsg != nil {
		p.AutoupdateCommitMsg = *raw.AutoupdateCommitMsg
	}
	if raw.AutoupdateSchedule != nil {
		p.AutoupdateSchedule = Schedule(*raw.AutoupdateSchedule)
	}
	if raw.Skip != nil {
		p.Skip = raw.Skip
	}
	if raw.Submodules != nil {
		p.Submodules = *raw.Submodules
	}
	p.Extra = raw.Extra
}

// stringKeys rewrites decoded mappings as map[string]interface{}. The decoder
// yields map[interface{}]interface{} as soon as one key is not a string, and
// neither mapstructure nor JSON accept that.
func stringKeys(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return lo.MapValues(t, func(x interface{}, _ string) interface{} { return stringKeys(x) })
	case map[interface{}]interface{}:
		return lo.MapEntries(t, func(k, x interface{}) (string, interface{}) { return fmt.Sprint(k), stringKeys(x) })
	case []interface{}:
		return lo.Map(t, func(x interface{}, _ int) interface{} { return stringKeys(x) })
	}
	return v
}
