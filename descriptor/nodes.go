package descriptor

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// field is one key/value pair of a YAML mapping, in document order.
type field struct {
	key   string
	keyNd *yaml.Node
	value *yaml.Node
}

// resolve follows aliases and unwraps document nodes.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.AliasNode:
			n = n.Alias
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case 0:
			// Zero node: empty input.
			return nil
		default:
			return n
		}
	}
	return nil
}

// fields lists a mapping's pairs the way the decoder sees them: keys pulled
// in through "<<" merges come first, explicit keys override them, and within
// a merged sequence earlier mappings win. Repeated explicit keys are all
// listed so callers can report them.
func fields(m *yaml.Node) []field {
	return mergedFields(m, make(map[*yaml.Node]bool))
}

func mergedFields(m *yaml.Node, visiting map[*yaml.Node]bool) []field {
	if m == nil || visiting[m] {
		return nil
	}
	visiting[m] = true
	defer delete(visiting, m)

	var explicit, merged []field
	for i := 0; i+1 < len(m.Content); i += 2 {
		if isMergeKey(m.Content[i]) {
			merged = append(merged, mergeSources(resolve(m.Content[i+1]), visiting)...)
			continue
		}
		key := ""
		if k := resolve(m.Content[i]); k != nil {
			key = k.Value
		}
		explicit = append(explicit, field{key: key, keyNd: m.Content[i], value: resolve(m.Content[i+1])})
	}
	if len(merged) == 0 {
		return explicit
	}

	own := make(map[string]bool, len(explicit))
	for _, f := range explicit {
		own[f.key] = true
	}
	var out []field
	for _, f := range merged {
		if !own[f.key] {
			out = append(out, f)
		}
	}
	return append(out, explicit...)
}

// mergeSources returns the fields a merge value contributes, first source winning.
func mergeSources(v *yaml.Node, visiting map[*yaml.Node]bool) []field {
	var sources []*yaml.Node
	switch {
	case isMapping(v):
		sources = []*yaml.Node{v}
	case isSequence(v):
		for _, item := range v.Content {
			if item = resolve(item); isMapping(item) {
				sources = append(sources, item)
			}
		}
	}

	seen := make(map[string]bool)
	var out []field
	for _, src := range sources {
		for _, f := range mergedFields(src, visiting) {
			if !seen[f.key] {
				seen[f.key] = true
				out = append(out, f)
			}
		}
	}
	return out
}

func isMergeKey(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Value == "<<" && n.ShortTag() == "!!merge"
}

// lookup returns the value node for key, or nil when absent.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for _, f := range fields(m) {
		if f.key == key {
			return f.value
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func isMapping(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.MappingNode
}

func isSequence(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.SequenceNode
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

func isBool(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool"
}

// kindName describes a node for diagnostics.
func kindName(n *yaml.Node) string {
	if n == nil {
		return "nothing"
	}
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return "string"
		case "!!bool":
			return "boolean"
		case "!!int":
			return "integer"
		case "!!float":
			return "number"
		case "!!null":
			return "null"
		default:
			return strings.TrimPrefix(n.ShortTag(), "!!")
		}
	}
	return "unknown"
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func keyPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
