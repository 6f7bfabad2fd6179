package descriptor

import (
	"regexp"
	"strings"
	"unicode"
)

// compilePattern compiles a files/exclude pattern. A leading (?x) switches
// on verbose mode as descriptor authors use it: unescaped whitespace and
// #-comments outside character classes are dropped before compiling.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if rest, ok := strings.CutPrefix(pattern, "(?x)"); ok {
		pattern = stripVerbose(rest)
	}
	return regexp.Compile(pattern)
}

func stripVerbose(s string) string {
	var b strings.Builder
	inClass, escaped, comment := false, false, false
	for _, r := range s {
		switch {
		case comment:
			if r == '\n' {
				comment = false
			}
			continue
		case escaped:
			escaped = false
			if !unicode.IsSpace(r) {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
			continue
		case r == '\\':
			escaped = true
			continue
		case inClass:
			if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
		case r == '#':
			comment = true
			continue
		case unicode.IsSpace(r):
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	return b.String()
}

// matcher applies one include/exclude pattern pair. Empty include matches
// everything, empty exclude matches nothing.
type matcher struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

func newMatcher(include, exclude string) (*matcher, error) {
	m := &matcher{}
	var err error
	if include != "" {
		if m.include, err = compilePattern(include); err != nil {
			return nil, err
		}
	}
	if exclude != "" {
		if m.exclude, err = compilePattern(exclude); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Match searches path, unanchored, the way the hook runner does.
func (m *matcher) Match(path string) bool {
	if m.include != nil && !m.include.MatchString(path) {
		return false
	}
	if m.exclude != nil && m.exclude.MatchString(path) {
		return false
	}
	return true
}
