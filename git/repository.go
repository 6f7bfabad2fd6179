package git

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultTimeout bounds every git invocation.
const DefaultTimeout = 30 * time.Second

var validRef = regexp.MustCompile(`^[a-zA-Z0-9/_.~^@{}-]+$`)

// Repository lists the files hooks would be run against, the way the hook
// runner does: staged files by default, every tracked file on request, or
// the files changed between two refs.
type Repository struct {
	executor Executor
	timeout  time.Duration
}

// NewRepository returns a Repository that shells out to git.
func NewRepository() *Repository {
	return NewRepositoryWithExecutor(&RealExecutor{})
}

// NewRepositoryWithExecutor returns a Repository using exec to create commands.
func NewRepositoryWithExecutor(exec Executor) *Repository {
	return &Repository{executor: exec, timeout: DefaultTimeout}
}

func (r *Repository) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.executor.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("git %s: %w", args[0], err)
		}
		return nil, fmt.Errorf("git %s: %s: %w", args[0], msg, err)
	}
	return out, nil
}

// IsRepo reports whether dir is inside a git work tree.
func (r *Repository) IsRepo(ctx context.Context, dir string) bool {
	out, err := r.run(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Root returns the top-level directory of the work tree containing dir.
func (r *Repository) Root(ctx context.Context, dir string) (string, error) {
	out, err := r.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("get git root: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// StagedFiles returns the paths added, copied, modified or renamed in the index.
func (r *Repository) StagedFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := r.run(ctx, dir, "diff", "--cached", "--name-only", "--diff-filter=ACMR", "-z")
	if err != nil {
		return nil, err
	}
	return splitNul(out), nil
}

// TrackedFiles returns every file in the index.
func (r *Repository) TrackedFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := r.run(ctx, dir, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	return splitNul(out), nil
}

// ChangedFiles returns the files that differ between the merge base of from
// and to, and to.
func (r *Repository) ChangedFiles(ctx context.Context, dir, from, to string) ([]string, error) {
	for _, ref := range []string{from, to} {
		if err := ValidateRef(ref); err != nil {
			return nil, err
		}
	}
	out, err := r.run(ctx, dir, "diff", "--name-only", "--diff-filter=ACMR", "-z", from+"..."+to)
	if err != nil {
		return nil, err
	}
	return splitNul(out), nil
}

// ValidateRef rejects refs that could be read as options or contain
// characters git does not allow in ref names.
func ValidateRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git ref cannot be empty")
	}
	if strings.HasPrefix(ref, "-") || !validRef.MatchString(ref) || strings.Contains(ref, "..") {
		return fmt.Errorf("invalid git ref: %s", ref)
	}
	return nil
}

func splitNul(out []byte) []string {
	return lo.Compact(strings.Split(string(out), "\x00"))
}

// ShortRepoName returns the last path element of a hook repository URL.
// Sentinel locations such as "local" and "meta" are returned unchanged.
func ShortRepoName(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")

	// git@github.com:user/repo
	if strings.HasPrefix(url, "git@") {
		if _, path, ok := strings.Cut(url, ":"); ok {
			url = path
		}
	}

	parts := strings.Split(url, "/")
	if name := parts[len(parts)-1]; name != "" {
		return name
	}
	return "unknown"
}
