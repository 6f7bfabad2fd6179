package descriptor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/hookplan/errors"
	"github.com/grovetools/hookplan/logging"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DescriptorNames are the file names FindDescriptorFile looks for, in order.
var DescriptorNames = []string{
	".pre-commit-config.yaml",
	".pre-commit-config.yml",
	".pre-commit-config.toml",
}

// Loader turns descriptor documents into validated models.
type Loader struct {
	// Strict additionally validates against the JSON schema, which turns
	// unknown fields into errors.
	Strict bool
	Logger *logrus.Entry
}

// NewLoader returns a loader logging through the "descriptor" component.
func NewLoader() *Loader {
	return &Loader{Logger: logging.NewLogger("descriptor")}
}

func (l *Loader) logger() *logrus.Entry {
	if l.Logger == nil {
		l.Logger = logging.NewLogger("descriptor")
	}
	return l.Logger
}

// Load parses a YAML document and returns its execution plan and CI policy.
func Load(document []byte) (*ExecutionPlan, *CIPolicy, error) {
	d, err := NewLoader().LoadBytes(document)
	if err != nil {
		return nil, nil, err
	}
	policy := d.Policy()
	return d.Plan(), &policy, nil
}

// LoadDescriptor parses a YAML document into the full model.
func LoadDescriptor(document []byte) (*Descriptor, error) {
	return NewLoader().LoadBytes(document)
}

// LoadDocument validates an already decoded document made of nested
// maps and slices.
func LoadDocument(doc interface{}) (*Descriptor, error) {
	return NewLoader().LoadDocument(doc)
}

// LoadFile reads and loads the descriptor at path.
func LoadFile(path string) (*Descriptor, error) {
	return NewLoader().LoadFile(path)
}

// LoadFile reads path and dispatches on its extension: .toml is parsed as
// TOML, everything else as YAML.
func (l *Loader) LoadFile(path string) (*Descriptor, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, errors.DescriptorInvalid(fmt.Sprintf("%s is a directory", path)).WithDetail("path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.DescriptorNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDescriptorInvalid, "failed to read descriptor file").
			WithDetail("path", path)
	}

	l.logger().WithField("path", path).Debug("Loading hook descriptor")

	var d *Descriptor
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		d, err = l.LoadTOML(data)
	} else {
		d, err = l.LoadBytes(data)
	}
	if err != nil {
		if descErr, ok := err.(*errors.DescriptorError); ok {
			return nil, descErr.WithDetail("path", path)
		}
		return nil, err
	}
	return d, nil
}

// LoadBytes parses a YAML document.
func (l *Loader) LoadBytes(document []byte) (*Descriptor, error) {
	var root yaml.Node
	if len(bytes.TrimSpace(document)) > 0 {
		if err := yaml.Unmarshal(document, &root); err != nil {
			return nil, errors.DescriptorParse(err, "yaml")
		}
	}
	return l.load(&root)
}

// LoadTOML parses a TOML document. It is converted to the same node tree
// as YAML input so both go through identical validation.
func (l *Loader) LoadTOML(document []byte) (*Descriptor, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(document, &doc); err != nil {
		return nil, errors.DescriptorParse(err, "toml")
	}
	return l.LoadDocument(doc)
}

// LoadDocument validates a generic document value.
func (l *Loader) LoadDocument(doc interface{}) (*Descriptor, error) {
	var root yaml.Node
	if doc != nil {
		if err := root.Encode(doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "document cannot be represented as a descriptor")
		}
	}
	return l.load(&root)
}

// load runs validation and, only when it passes, builds the model.
func (l *Loader) load(root *yaml.Node) (*Descriptor, error) {
	log := l.logger()

	v := validate(root)
	// The schema duplicates most structural checks, so it only runs on
	// documents that already passed them.
	if l.Strict && !v.HasErrors() {
		strict, err := validateSchema(root)
		if err != nil {
			return nil, err
		}
		v.Merge(strict)
		v.Sort()
	}

	// Warnings are returned to the caller, which decides how to show them.
	for _, w := range v.Warnings {
		log.WithFields(logrus.Fields{"path": w.Path, "line": w.Line}).Debug(w.Reason)
	}
	if v.HasErrors() {
		log.WithField("errors", len(v.Errors)).Debug("Hook descriptor failed validation")
		return nil, errors.ValidationFailed(v)
	}

	d, err := build(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "validated descriptor could not be decoded")
	}
	d.Warnings = v.Warnings

	log.WithFields(logrus.Fields{
		"repos": len(d.Repos),
		"hooks": d.Plan().Len(),
	}).Debug("Hook descriptor loaded and validated successfully")
	return d, nil
}

// FindDescriptorFile searches startDir and its parents for a descriptor.
func FindDescriptorFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range DescriptorNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.DescriptorNotFound(startDir).WithDetail("searchPath", startDir)
}
