package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripVerbose(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `^src/`, `^src/`},
		{"whitespace and newlines", "^(\n    docs/|\n    vendor/\n)$", `^(docs/|vendor/)$`},
		{"comments", "^(\n  docs/|  # documentation\n  build/\n)", `^(docs/|build/)`},
		{"escaped space kept", `foo\ bar`, `foo bar`},
		{"escaped hash kept", `issue\#1`, `issue\#1`},
		{"class keeps spaces and hash", `[ #]+`, `[ #]+`},
		{"escaped bracket in class", `[\] ]x`, `[\] ]x`},
		{"escaped dot", `\. py`, `\.py`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripVerbose(tt.in))
		})
	}
}

func TestCompilePatternVerbose(t *testing.T) {
	re, err := compilePattern(`(?x)^(
    src/app/static/|
    docs/
)`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("docs/index.md"))
	assert.True(t, re.MatchString("src/app/static/app.js"))
	assert.False(t, re.MatchString("src/app/main.py"))
}

func TestCompilePatternRejectsInvalid(t *testing.T) {
	for _, p := range []string{"([a-z", "*.py", "(?x)(\n  a\n"} {
		_, err := compilePattern(p)
		assert.Error(t, err, "pattern %q", p)
	}
}

func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		include string
		exclude string
		path    string
		want    bool
	}{
		{"no patterns", "", "", "anything.txt", true},
		{"include is a search", `\.py$`, "", "src/app/main.py", true},
		{"include misses", `\.py$`, "", "README.md", false},
		{"exclude wins", `\.py$`, `^docs/`, "docs/conf.py", false},
		{"exclude only", "", `^vendor/`, "vendor/lib.go", false},
		{"unanchored include", "app", "", "src/app/main.py", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := newMatcher(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}
