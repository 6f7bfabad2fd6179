package descriptor

import (
	"github.com/samber/lo"
)

// PlanEntry is one hook invocation in execution order.
type PlanEntry struct {
	// Position is the entry's zero-based index in the full plan.
	Position  int            `json:"position"`
	RepoIndex int            `json:"repo_index"`
	HookIndex int            `json:"hook_index"`
	Repo      string         `json:"repo"`
	Rev       string         `json:"rev"`
	Hook      HookInvocation `json:"hook"`
}

// ExecutionPlan is the ordered sequence of every hook invocation, repository
// block by repository block and hook by hook within a block. Repeated
// repo/hook pairs are kept.
type ExecutionPlan struct {
	Entries []PlanEntry `json:"entries"`
}

// Plan flattens the descriptor into its execution plan.
func (d *Descriptor) Plan() *ExecutionPlan {
	p := &ExecutionPlan{Entries: []PlanEntry{}}
	for ri, repo := range d.Repos {
		for hi, hook := range repo.Hooks {
			p.Entries = append(p.Entries, PlanEntry{
				Position:  len(p.Entries),
				RepoIndex: ri,
				HookIndex: hi,
				Repo:      repo.Location,
				Rev:       repo.Revision,
				Hook:      hook,
			})
		}
	}
	return p
}

// Len returns the number of entries.
func (p *ExecutionPlan) Len() int {
	return len(p.Entries)
}

// IDs returns the hook ids in execution order.
func (p *ExecutionPlan) IDs() []string {
	return lo.Map(p.Entries, func(e PlanEntry, _ int) string { return e.Hook.ID })
}

// ForCI returns the plan the CI bot runs: entries skipped by the policy, by
// id or alias, are left out. Positions keep their values from the full plan.
func (p *ExecutionPlan) ForCI(policy CIPolicy) *ExecutionPlan {
	kept := lo.Filter(p.Entries, func(e PlanEntry, _ int) bool {
		if policy.SkipsHook(e.Hook.ID) {
			return false
		}
		return e.Hook.Alias == "" || !policy.SkipsHook(e.Hook.Alias)
	})
	return &ExecutionPlan{Entries: kept}
}

// Selection pairs a plan entry with the paths it would be run against.
type Selection struct {
	Entry PlanEntry `json:"entry"`
	Paths []string  `json:"paths"`
}

// Select filters paths for every entry. A path reaches a hook when it passes
// the descriptor-wide files/exclude pair and then the hook's own pair.
// Content-type filters are not evaluated.
func (p *ExecutionPlan) Select(paths []string, files, exclude string) ([]Selection, error) {
	global, err := newMatcher(files, exclude)
	if err != nil {
		return nil, err
	}
	candidates := lo.Filter(paths, func(path string, _ int) bool { return global.Match(path) })

	selections := make([]Selection, 0, len(p.Entries))
	for _, e := range p.Entries {
		m, err := newMatcher(e.Hook.Files, e.Hook.Exclude)
		if err != nil {
			return nil, err
		}
		selections = append(selections, Selection{
			Entry: e,
			Paths: lo.Filter(candidates, func(path string, _ int) bool { return m.Match(path) }),
		})
	}
	return selections, nil
}
