package descriptor

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/grovetools/hookplan/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roundTripDescriptor = `files: ^(src|tests)/
fail_fast: true
repos:
  - repo: https://github.com/charliermarsh/ruff-pre-commit
    rev: v0.0.254
    hooks:
      - id: ruff
        args: ["--select=I", "--fix"]
        additional_dependencies: [tomli]
        always_run: false
  - repo: https://github.com/Lucas-C/pre-commit-hooks
    rev: v1.4.2
    sha: legacy
    hooks:
      - id: insert-license
        name: Insert license header
        files: \.py$
        args: [--license-filepath, license_header.txt]
        log_file: license.log
ci:
  autoupdate_schedule: monthly
  skip: [ruff]
  submodules: true
`

func TestRoundTripYAML(t *testing.T) {
	original, err := LoadDescriptor([]byte(roundTripDescriptor))
	require.NoError(t, err)

	data, err := MarshalYAML(original)
	require.NoError(t, err)

	reloaded, err := LoadDescriptor(data)
	require.NoError(t, err, "exported yaml:\n%s", data)

	if diff := cmp.Diff(original, reloaded, descriptorCmp...); diff != "" {
		t.Errorf("round trip changed the model (-original +reloaded):\n%s", diff)
	}
	// Unknown fields are written back, so they warn again.
	assert.Len(t, reloaded.Warnings, len(original.Warnings))
}

func TestRoundTripTOML(t *testing.T) {
	original, err := LoadDescriptor([]byte(roundTripDescriptor))
	require.NoError(t, err)

	data, err := MarshalTOML(original)
	require.NoError(t, err)

	reloaded, err := NewLoader().LoadTOML(data)
	require.NoError(t, err, "exported toml:\n%s", data)

	if diff := cmp.Diff(original, reloaded, descriptorCmp...); diff != "" {
		t.Errorf("toml round trip changed the model (-original +reloaded):\n%s", diff)
	}
}

func TestRoundTripDocument(t *testing.T) {
	original, err := LoadDescriptor([]byte(roundTripDescriptor))
	require.NoError(t, err)

	doc, err := original.ToDocument()
	require.NoError(t, err)

	reloaded, err := LoadDocument(doc)
	require.NoError(t, err)

	if diff := cmp.Diff(original, reloaded, descriptorCmp...); diff != "" {
		t.Errorf("document round trip changed the model (-original +reloaded):\n%s", diff)
	}
}

func TestMarshalYAMLKeyOrder(t *testing.T) {
	d, err := LoadDescriptor([]byte(roundTripDescriptor))
	require.NoError(t, err)

	data, err := MarshalYAML(d)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "repos:\n"), out)
	assert.Less(t, strings.Index(out, "repos:"), strings.Index(out, "\nci:"))
	assert.Less(t, strings.Index(out, "    rev: v0.0.254"), strings.Index(out, "    hooks:"))
	assert.Less(t, strings.Index(out, "--select=I"), strings.Index(out, "--fix"))
}

func TestMarshalOmitsUndeclaredCI(t *testing.T) {
	d, err := LoadDescriptor([]byte("repos:\n  - repo: r\n    rev: v1\n    hooks: [{id: a}]\n"))
	require.NoError(t, err)

	data, err := MarshalYAML(d)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ci:")

	reloaded, err := LoadDescriptor(data)
	require.NoError(t, err)
	assert.False(t, reloaded.CIDeclared)
	assert.Equal(t, d.Policy(), reloaded.Policy())
}

func TestMarshalDeclaredCIWritesDefaults(t *testing.T) {
	d, err := LoadDescriptor([]byte("repos: []\nci:\n  autofix_prs: false\n"))
	require.NoError(t, err)

	data, err := MarshalYAML(d)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "autofix_prs: false")
	assert.Contains(t, out, "autoupdate_schedule: weekly")
	assert.Contains(t, out, "skip: []")
}

func TestMarshalFormats(t *testing.T) {
	d, err := LoadDescriptor([]byte(roundTripDescriptor))
	require.NoError(t, err)

	for _, format := range []string{"yaml", "YML", "", "toml"} {
		data, err := Marshal(d, format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, data, format)
	}

	_, err = Marshal(d, "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedFormat))
}
