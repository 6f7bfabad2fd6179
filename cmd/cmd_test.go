package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/hookplan/descriptor"
	"github.com/grovetools/hookplan/errors"
	"github.com/grovetools/hookplan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), testutil.Sample)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid (2 hook invocation(s))")
}

func TestValidateCommandJSON(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), testutil.Sample)

	stdout, _, err := execute(t, "validate", path, "--json")
	require.NoError(t, err)

	var result validateResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Hooks)
	assert.Empty(t, result.Warnings)
}

func TestValidateCommandFailure(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), "repos:\n  - repo: r\n    hooks: [{id: a}]\n")

	_, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDescriptorValidation))
}

func TestValidateCommandStrict(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), `repos:
  - repo: r
    rev: v1
    hooks:
      - id: a
        language: python
`)

	_, stderr, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "unknown field 'language'"), "warning shown once: %s", stderr)

	_, _, err = execute(t, "validate", "--strict", path)
	require.Error(t, err)
}

func TestValidateCommandUsesConfigFlag(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "hooks.yaml", testutil.Sample)

	_, _, err := execute(t, "validate", "-c", path)
	require.NoError(t, err)
}

func TestValidateCommandSearchesUpward(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteDescriptor(t, dir, testutil.Sample)
	nested := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	testutil.Chdir(t, nested)

	stdout, _, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".pre-commit-config.yaml")
}

func TestPlanCommand(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), testutil.Sample)

	stdout, _, err := execute(t, "plan", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. black")
	assert.Contains(t, stdout, "2. ruff")
	assert.Contains(t, stdout, "--select=I --fix")

	stdout, _, err = execute(t, "plan", path, "--ci")
	require.NoError(t, err)
	assert.Contains(t, stdout, "black")
	assert.NotContains(t, stdout, "ruff")
}

func TestPlanCommandJSON(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), testutil.Sample)

	stdout, _, err := execute(t, "plan", path, "--json")
	require.NoError(t, err)

	var plan descriptor.ExecutionPlan
	require.NoError(t, json.Unmarshal([]byte(stdout), &plan))
	assert.Equal(t, []string{"black", "ruff"}, plan.IDs())
	assert.Equal(t, []string{"--select=I", "--fix"}, plan.Entries[1].Hook.Args)
}

func TestPlanCommandFiles(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
        files: \.py$
`)

	stdout, _, err := execute(t, "plan", path, "--files", "a.py,b.md", "--json")
	require.NoError(t, err)

	var selections []descriptor.Selection
	require.NoError(t, json.Unmarshal([]byte(stdout), &selections))
	require.Len(t, selections, 1)
	assert.Equal(t, []string{"a.py"}, selections[0].Paths)
}

func TestExportCommand(t *testing.T) {
	path := testutil.WriteDescriptor(t, t.TempDir(), testutil.Sample)

	stdout, _, err := execute(t, "export", path)
	require.NoError(t, err)
	reloaded, err := descriptor.LoadDescriptor([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []string{"black", "ruff"}, reloaded.Plan().IDs())

	stdout, _, err = execute(t, "export", path, "--format", "toml")
	require.NoError(t, err)
	reloaded, err = descriptor.NewLoader().LoadTOML([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, []string{"ruff"}, reloaded.CI.Skip)

	_, _, err = execute(t, "export", path, "--format", "ini")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedFormat))
}

func TestSchemaCommand(t *testing.T) {
	stdout, _, err := execute(t, "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))

	stdout, _, err = execute(t, "schema", "--embedded")
	require.NoError(t, err)
	assert.Contains(t, stdout, "HookInvocation")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestPlanCommandOutsideGit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	path := testutil.WriteDescriptor(t, dir, testutil.Sample)

	_, _, err := execute(t, "plan", path, "--staged")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	assert.Contains(t, err.Error(), "git work tree")
}

func TestPlanCommandAllFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test User"},
	} {
		c := exec.Command("git", args...)
		c.Dir = dir
		require.NoError(t, c.Run())
	}
	path := testutil.WriteDescriptor(t, dir, `repos:
  - repo: https://github.com/psf/black
    rev: 23.1.0
    hooks:
      - id: black
        files: \.py$
`)
	testutil.WriteFile(t, dir, "src/app.py", "x = 1\n")
	testutil.WriteFile(t, dir, "untracked.py", "y = 2\n")
	add := exec.Command("git", "add", ".pre-commit-config.yaml", "src/app.py")
	add.Dir = dir
	require.NoError(t, add.Run())

	stdout, _, err := execute(t, "plan", path, "--all-files", "--json")
	require.NoError(t, err)

	var selections []descriptor.Selection
	require.NoError(t, json.Unmarshal([]byte(stdout), &selections))
	require.Len(t, selections, 1)
	assert.Equal(t, []string{"src/app.py"}, selections[0].Paths)

	stdout, _, err = execute(t, "plan", path, "--staged", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &selections))
	assert.Equal(t, []string{"src/app.py"}, selections[0].Paths)
}
