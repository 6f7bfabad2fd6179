package descriptor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grovetools/hookplan/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Export formats understood by Marshal.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// document is the serialized shape of a Descriptor. Field order is the key
// order of exported YAML.
type document struct {
	Repos          []RepositoryReference  `yaml:"repos"`
	CI             *CIPolicy              `yaml:"ci,omitempty"`
	Files          string                 `yaml:"files,omitempty"`
	Exclude        string                 `yaml:"exclude,omitempty"`
	FailFast       bool                   `yaml:"fail_fast,omitempty"`
	DefaultStages  []string               `yaml:"default_stages,omitempty"`
	MinimumVersion string                 `yaml:"minimum_pre_commit_version,omitempty"`
	Extra          map[string]interface{} `yaml:",inline"`
}

func (d *Descriptor) document() document {
	doc := document{
		Repos:          d.Repos,
		Files:          d.Files,
		Exclude:        d.Exclude,
		FailFast:       d.FailFast,
		DefaultStages:  d.DefaultStages,
		MinimumVersion: d.MinimumVersion,
		Extra:          d.Extra,
	}
	if d.CIDeclared {
		ci := d.CI
		doc.CI = &ci
	}
	return doc
}

// ToDocument returns the descriptor as a generic document of nested maps
// and slices, the same shape LoadDocument accepts.
func (d *Descriptor) ToDocument() (map[string]interface{}, error) {
	data, err := MarshalYAML(d)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to re-read exported descriptor: %w", err)
	}
	return out, nil
}

// MarshalYAML renders the descriptor as YAML with two-space indentation.
func MarshalYAML(d *Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.document()); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalTOML renders the descriptor as TOML.
func MarshalTOML(d *Descriptor) ([]byte, error) {
	doc, err := d.ToDocument()
	if err != nil {
		return nil, err
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode descriptor as toml: %w", err)
	}
	return data, nil
}

// Marshal renders the descriptor in the named format.
func Marshal(d *Descriptor, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		return MarshalYAML(d)
	case FormatTOML:
		return MarshalTOML(d)
	default:
		return nil, errors.UnsupportedFormat(format)
	}
}
