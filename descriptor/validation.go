package descriptor

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/grovetools/hookplan/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	topLevelFields = fieldSet("repos", "ci", "files", "exclude", "fail_fast", "default_stages", "minimum_pre_commit_version")
	repoFields     = fieldSet("repo", "rev", "hooks")
	hookFields     = fieldSet("id", "name", "alias", "files", "exclude", "types", "types_or", "exclude_types",
		"args", "additional_dependencies", "stages", "always_run", "pass_filenames")
	ciFields = fieldSet("autofix_commit_msg", "autofix_prs", "autoupdate_branch", "autoupdate_commit_msg",
		"autoupdate_schedule", "skip", "submodules")

	hookStringSequences = []string{"types", "types_or", "exclude_types", "additional_dependencies", "stages"}
)

func fieldSet(names ...string) map[string]bool {
	return lo.SliceToMap(names, func(n string) (string, bool) { return n, true })
}

// blockResult is the outcome of checking one repository block on its own.
// It depends only on the block's subtree.
type blockResult struct {
	violations errors.ValidationErrors
	ids        []string
}

// checker records violations for one subtree. repo, when set, is attached
// to every record so diagnostics name the enclosing repository.
type checker struct {
	v    *errors.ValidationErrors
	repo string
}

func (c *checker) fail(code errors.ValidationCode, path string, at *yaml.Node, format string, args ...interface{}) {
	f := errors.FieldError{Code: code, Path: path, Reason: fmt.Sprintf(format, args...), Repo: c.repo}
	if at != nil {
		f.Line, f.Column = at.Line, at.Column
	}
	c.v.Add(f)
}

func (c *checker) warn(code errors.ValidationCode, path string, at *yaml.Node, format string, args ...interface{}) {
	f := errors.FieldError{Code: code, Path: path, Reason: fmt.Sprintf(format, args...), Repo: c.repo}
	if at != nil {
		f.Line, f.Column = at.Line, at.Column
	}
	c.v.Warn(f)
}

// keys warns about unknown keys. Repeated keys are reported by checkNodes.
func (c *checker) keys(m *yaml.Node, path string, known map[string]bool) {
	seen := make(map[string]bool)
	for _, f := range fields(m) {
		if seen[f.key] {
			continue
		}
		seen[f.key] = true
		if !known[f.key] {
			c.warn(errors.CodeUnknownField, keyPath(path, f.key), f.keyNd, "unknown field '%s'", f.key)
		}
	}
}

// optionalString checks a string field that may be absent or null.
func (c *checker) optionalString(m *yaml.Node, path, key string) (string, bool) {
	n := lookup(m, key)
	if isNull(n) {
		return "", false
	}
	if !isString(n) {
		c.fail(errors.CodeWrongType, keyPath(path, key), n, "'%s' must be a string, got %s", key, kindName(n))
		return "", false
	}
	return n.Value, true
}

func (c *checker) optionalBool(m *yaml.Node, path, key string) {
	n := lookup(m, key)
	if isNull(n) {
		return
	}
	if !isBool(n) {
		c.fail(errors.CodeWrongType, keyPath(path, key), n, "'%s' must be a boolean, got %s", key, kindName(n))
	}
}

func (c *checker) optionalStringSequence(m *yaml.Node, path, key string) {
	n := lookup(m, key)
	if isNull(n) {
		return
	}
	p := keyPath(path, key)
	if !isSequence(n) {
		c.fail(errors.CodeNotStringSequence, p, n, "'%s' must be a sequence of strings, got %s", key, kindName(n))
		return
	}
	for i, item := range n.Content {
		item = resolve(item)
		if !isString(item) {
			c.fail(errors.CodeNotStringSequence, indexPath(p, i), item, "'%s' entries must be strings, got %s", key, kindName(item))
		}
	}
}

// requiredString checks a field that must be present and non-empty.
func (c *checker) requiredString(m *yaml.Node, path, key string, missing, empty errors.ValidationCode) (string, bool) {
	n := lookup(m, key)
	p := keyPath(path, key)
	switch {
	case n == nil:
		c.fail(missing, path, m, "missing required field '%s'", key)
		return "", false
	case isNull(n):
		c.fail(empty, p, n, "'%s' must not be empty", key)
		return "", false
	case !isString(n):
		c.fail(errors.CodeWrongType, p, n, "'%s' must be a string, got %s", key, kindName(n))
		return "", false
	case strings.TrimSpace(n.Value) == "":
		c.fail(empty, p, n, "'%s' must not be empty", key)
		return "", false
	}
	return n.Value, true
}

func (c *checker) pattern(m *yaml.Node, path, key string) {
	value, ok := c.optionalString(m, path, key)
	if !ok {
		return
	}
	if _, err := compilePattern(value); err != nil {
		c.fail(errors.CodeInvalidRegex, keyPath(path, key), lookup(m, key), "'%s' is not a valid regular expression: %v", key, err)
	}
}

// validate runs the whole two-phase validation of a parsed document:
// every repository block is checked and its hook ids collected, then the ci
// block is checked against the complete id set.
func validate(root *yaml.Node) *errors.ValidationErrors {
	v := &errors.ValidationErrors{}
	c := &checker{v: v}

	doc := resolve(root)
	if isNull(doc) {
		c.fail(errors.CodeReposMissing, "repos", nil, "missing required top-level field 'repos'")
		v.Aborted = true
		return v
	}
	if !isMapping(doc) {
		c.fail(errors.CodeDocumentNotMapping, "", doc, "document must be a mapping, got %s", kindName(doc))
		v.Aborted = true
		return v
	}

	repos := lookup(doc, "repos")
	if repos == nil {
		c.fail(errors.CodeReposMissing, "repos", doc, "missing required top-level field 'repos'")
		v.Aborted = true
		return v
	}
	if !isSequence(repos) {
		c.fail(errors.CodeReposNotSequence, "repos", repos, "'repos' must be a sequence, got %s", kindName(repos))
		v.Aborted = true
		return v
	}

	checkNodes(c, doc, "", make(map[*yaml.Node]bool))
	c.keys(doc, "", topLevelFields)
	checkTopLevel(c, doc)

	// Collect.
	var declared []string
	for i, item := range repos.Content {
		res := checkRepo(i, resolve(item))
		v.Merge(&res.violations)
		declared = append(declared, res.ids...)
	}

	// Validate references once every id is known.
	checkCI(c, lookup(doc, "ci"), lo.Uniq(declared))

	v.Sort()
	return v
}

// mappingKey identifies a key the way the decoder compares them.
type mappingKey struct {
	kind  yaml.Kind
	value string
}

// checkNodes walks every node the decoder will see and reports what it would
// reject: repeated keys, non-scalar keys, malformed merges and aliases that
// contain themselves. open holds the collections on the current path.
func checkNodes(c *checker, n *yaml.Node, path string, open map[*yaml.Node]bool) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.AliasNode:
		if open[n.Alias] {
			c.fail(errors.CodeRecursiveAlias, path, n, "alias '*%s' refers to a node that contains it", n.Value)
		}
	case yaml.SequenceNode:
		open[n] = true
		defer delete(open, n)
		for i, item := range n.Content {
			checkNodes(c, item, indexPath(path, i), open)
		}
	case yaml.MappingNode:
		open[n] = true
		defer delete(open, n)
		seen := make(map[mappingKey]bool)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			p := keyPath(path, k.Value)
			if rk := resolve(k); rk != nil && rk.Kind != yaml.ScalarNode {
				c.fail(errors.CodeComplexKey, path, k, "mapping keys must be scalars, got %s", kindName(rk))
				continue
			}
			id := mappingKey{kind: k.Kind, value: k.Value}
			if seen[id] {
				c.fail(errors.CodeDuplicateKey, p, k, "key '%s' is defined more than once", k.Value)
			}
			seen[id] = true
			if isMergeKey(k) {
				checkMerge(c, p, v)
			}
			checkNodes(c, v, p, open)
		}
	}
}

// checkMerge requires a merge value to be a mapping or a sequence of mappings.
func checkMerge(c *checker, path string, v *yaml.Node) {
	target := resolve(v)
	if isMapping(target) {
		return
	}
	if isSequence(target) {
		for i, item := range target.Content {
			if m := resolve(item); !isMapping(m) {
				c.fail(errors.CodeInvalidMerge, indexPath(path, i), item, "merged values must be mappings, got %s", kindName(m))
			}
		}
		return
	}
	c.fail(errors.CodeInvalidMerge, path, v, "'<<' must merge a mapping or a sequence of mappings, got %s", kindName(target))
}

func checkTopLevel(c *checker, doc *yaml.Node) {
	c.pattern(doc, "", "files")
	c.pattern(doc, "", "exclude")
	c.optionalBool(doc, "", "fail_fast")
	c.optionalStringSequence(doc, "", "default_stages")

	if raw, ok := c.optionalString(doc, "", "minimum_pre_commit_version"); ok {
		if _, err := semver.NewVersion(raw); err != nil {
			c.fail(errors.CodeInvalidVersion, "minimum_pre_commit_version", lookup(doc, "minimum_pre_commit_version"),
				"'%s' is not a valid version: %v", raw, err)
		}
	}
}

func checkRepo(i int, node *yaml.Node) blockResult {
	var res blockResult
	c := &checker{v: &res.violations}
	path := indexPath("repos", i)

	if !isMapping(node) {
		c.fail(errors.CodeRepoNotMapping, path, node, "repository entry must be a mapping, got %s", kindName(node))
		return res
	}

	// Diagnostics for this block name its repo when one is readable.
	if loc, ok := c.requiredString(node, path, "repo", errors.CodeRepoLocationMissing, errors.CodeRepoLocationEmpty); ok {
		c.repo = loc
	}
	c.requiredString(node, path, "rev", errors.CodeRevisionMissing, errors.CodeRevisionEmpty)
	c.keys(node, path, repoFields)

	hooks := lookup(node, "hooks")
	hooksPath := keyPath(path, "hooks")
	switch {
	case hooks == nil:
		c.fail(errors.CodeHooksMissing, path, node, "missing required field 'hooks'")
		return res
	case !isSequence(hooks):
		c.fail(errors.CodeHooksNotSequence, hooksPath, hooks, "'hooks' must be a sequence, got %s", kindName(hooks))
		return res
	case len(hooks.Content) == 0:
		c.fail(errors.CodeHooksEmpty, hooksPath, hooks, "'hooks' must contain at least one hook")
		return res
	}

	for j, h := range hooks.Content {
		res.ids = append(res.ids, checkHook(c, indexPath(hooksPath, j), resolve(h))...)
	}
	return res
}

// checkHook validates one hook entry and returns the names it can be skipped by.
func checkHook(c *checker, path string, node *yaml.Node) []string {
	if !isMapping(node) {
		c.fail(errors.CodeHookNotMapping, path, node, "hook entry must be a mapping, got %s", kindName(node))
		return nil
	}

	var ids []string
	if id, ok := c.requiredString(node, path, "id", errors.CodeHookIDMissing, errors.CodeHookIDEmpty); ok {
		ids = append(ids, id)
	}
	c.keys(node, path, hookFields)

	c.optionalString(node, path, "name")
	if alias, ok := c.optionalString(node, path, "alias"); ok && alias != "" {
		ids = append(ids, alias)
	}
	c.pattern(node, path, "files")
	c.pattern(node, path, "exclude")
	c.optionalBool(node, path, "always_run")
	c.optionalBool(node, path, "pass_filenames")
	for _, key := range hookStringSequences {
		c.optionalStringSequence(node, path, key)
	}

	if args := lookup(node, "args"); !isNull(args) {
		argsPath := keyPath(path, "args")
		if !isSequence(args) {
			c.fail(errors.CodeArgsNotSequence, argsPath, args, "'args' must be a sequence of strings, got %s", kindName(args))
		} else {
			for k, arg := range args.Content {
				arg = resolve(arg)
				if !isString(arg) {
					c.fail(errors.CodeArgNotString, indexPath(argsPath, k), arg, "argument must be a string, got %s", kindName(arg))
				}
			}
		}
	}
	return ids
}

func checkCI(c *checker, ci *yaml.Node, declared []string) {
	if isNull(ci) {
		return
	}
	if !isMapping(ci) {
		c.fail(errors.CodeCINotMapping, "ci", ci, "'ci' must be a mapping, got %s", kindName(ci))
		return
	}
	c.keys(ci, "ci", ciFields)

	c.optionalString(ci, "ci", "autofix_commit_msg")
	c.optionalString(ci, "ci", "autoupdate_branch")
	c.optionalString(ci, "ci", "autoupdate_commit_msg")
	c.optionalBool(ci, "ci", "autofix_prs")
	c.optionalBool(ci, "ci", "submodules")

	if n := lookup(ci, "autoupdate_schedule"); !isNull(n) {
		if !isString(n) || !Schedule(n.Value).Valid() {
			c.fail(errors.CodeInvalidSchedule, "ci.autoupdate_schedule", n,
				"'autoupdate_schedule' must be one of %s, got '%s'", strings.Join(lo.Map(Schedules, func(s Schedule, _ int) string { return string(s) }), ", "), n.Value)
		}
	}

	skip := lookup(ci, "skip")
	if isNull(skip) {
		return
	}
	if !isSequence(skip) {
		c.fail(errors.CodeSkipNotSequence, "ci.skip", skip, "'skip' must be a sequence of hook ids, got %s", kindName(skip))
		return
	}
	for i, item := range skip.Content {
		item = resolve(item)
		p := indexPath("ci.skip", i)
		if !isString(item) {
			c.fail(errors.CodeSkipNotString, p, item, "skip entries must be strings, got %s", kindName(item))
			continue
		}
		if !lo.Contains(declared, item.Value) {
			c.fail(errors.CodeDanglingSkip, p, item, "no hook with id '%s' is declared in repos", item.Value)
		}
	}
}
