package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/hookplan/cli"
	"github.com/grovetools/hookplan/descriptor"
	"github.com/grovetools/hookplan/errors"
	"github.com/grovetools/hookplan/git"
	"github.com/spf13/cobra"
)

var (
	idStyle   = lipgloss.NewStyle().Bold(true)
	repoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func NewPlanCmd() *cobra.Command {
	var (
		forCI    bool
		files    []string
		staged   bool
		allFiles bool
		fromRef  string
		toRef    string
	)

	cmd := &cobra.Command{
		Use:   "plan [path]",
		Short: "Print the hook invocations in execution order",
		Long: `Flattens the descriptor into its execution plan: every hook of every
repository block, in document order.

--ci drops the hooks the CI bot skips. --files shows, for each hook, which of
the given paths it would run against. Instead of listing paths, --staged,
--all-files or --from-ref/--to-ref take them from the git repository that
contains the descriptor.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cli.ResolveDescriptor(cmd, args)
			if err != nil {
				return err
			}

			d, err := descriptor.LoadFile(path)
			if err != nil {
				return err
			}

			plan := d.Plan()
			if forCI {
				plan = plan.ForCI(d.Policy())
			}

			if len(files) == 0 {
				files, err = filesFromGit(cmd.Context(), path, staged, allFiles, fromRef, toRef)
				if err != nil {
					return err
				}
			}

			jsonOutput := cli.GetOptions(cmd).JSONOutput
			out := cmd.OutOrStdout()

			if files == nil {
				if jsonOutput {
					return writeJSON(out, plan)
				}
				printPlan(out, plan)
				return nil
			}

			selections, err := plan.Select(files, d.Files, d.Exclude)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(out, selections)
			}
			printSelections(out, selections)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forCI, "ci", false, "Leave out hooks skipped by the ci block")
	cmd.Flags().StringSliceVar(&files, "files", nil, "Paths to match against each hook's files/exclude patterns")
	cmd.Flags().BoolVar(&staged, "staged", false, "Match the files staged in git")
	cmd.Flags().BoolVarP(&allFiles, "all-files", "a", false, "Match every file tracked by git")
	cmd.Flags().StringVar(&fromRef, "from-ref", "", "Match the files changed since this git ref (with --to-ref)")
	cmd.Flags().StringVar(&toRef, "to-ref", "", "Match the files changed up to this git ref (with --from-ref)")
	cmd.MarkFlagsMutuallyExclusive("files", "staged", "all-files", "from-ref")
	cmd.MarkFlagsRequiredTogether("from-ref", "to-ref")

	return cmd
}

// filesFromGit lists candidate paths from the repository holding the
// descriptor. It returns nil when no git source was requested.
func filesFromGit(ctx context.Context, descriptorPath string, staged, allFiles bool, fromRef, toRef string) ([]string, error) {
	if !staged && !allFiles && fromRef == "" {
		return nil, nil
	}

	repo := git.NewRepository()
	dir := filepath.Dir(descriptorPath)
	if !repo.IsRepo(ctx, dir) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "git file selection needs the descriptor to be inside a git work tree").
			WithDetail("dir", dir)
	}
	root, err := repo.Root(ctx, dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	switch {
	case allFiles:
		paths, err = repo.TrackedFiles(ctx, root)
	case fromRef != "":
		paths, err = repo.ChangedFiles(ctx, root, fromRef, toRef)
	default:
		paths, err = repo.StagedFiles(ctx, root)
	}
	if err != nil {
		return nil, err
	}
	if paths == nil {
		paths = []string{}
	}
	return paths, nil
}

func printPlan(w io.Writer, plan *descriptor.ExecutionPlan) {
	if plan.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("no hooks"))
		return
	}
	for _, e := range plan.Entries {
		fmt.Fprintf(w, "%3d. %s %s", e.Position+1, idStyle.Render(e.Hook.DisplayName()), repoStyle.Render(git.ShortRepoName(e.Repo)+"@"+e.Rev))
		if len(e.Hook.Args) > 0 {
			fmt.Fprintf(w, " %s", dimStyle.Render(strings.Join(e.Hook.Args, " ")))
		}
		fmt.Fprintln(w)
	}
}

func printSelections(w io.Writer, selections []descriptor.Selection) {
	for _, s := range selections {
		fmt.Fprintf(w, "%3d. %s (%d file(s))\n", s.Entry.Position+1, idStyle.Render(s.Entry.Hook.DisplayName()), len(s.Paths))
		for _, p := range s.Paths {
			fmt.Fprintf(w, "       %s\n", p)
		}
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
