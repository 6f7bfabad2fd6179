package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/hookplan/cli"
	"github.com/grovetools/hookplan/descriptor"
	"github.com/grovetools/hookplan/errors"
	"github.com/spf13/cobra"
)

type validateResult struct {
	Valid    bool                `json:"valid"`
	Path     string              `json:"path"`
	Hooks    int                 `json:"hooks"`
	Warnings []errors.FieldError `json:"warnings"`
}

func NewValidateCmd() *cobra.Command {
	var (
		strict   bool
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a hook descriptor and report every problem found",
		Long: `Loads the descriptor and reports all violations at once, each with its
field path, line and column. Unknown fields are reported as warnings unless
--strict is given, in which case the JSON schema is also enforced.

With --watch the descriptor is re-validated every time it changes on disk.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cli.ResolveDescriptor(cmd, args)
			if err != nil {
				return err
			}

			loader := descriptor.NewLoader()
			loader.Strict = strict

			d, err := loader.LoadFile(path)
			if !watch {
				return reportValidation(cmd, path, d, err)
			}

			handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose, cli.GetOptions(cmd).JSONOutput)
			handler.Out = cmd.ErrOrStderr()
			handler.Handle(reportValidation(cmd, path, d, err))
			return watchDescriptor(cmd, path, loader, debounce, handler)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat unknown fields as errors and enforce the JSON schema")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-validate whenever the descriptor changes")
	cmd.Flags().DurationVar(&debounce, "debounce", descriptor.DefaultDebounce, "Quiet period before re-validating in --watch mode")

	return cmd
}

func reportValidation(cmd *cobra.Command, path string, d *descriptor.Descriptor, err error) error {
	if err != nil {
		return err
	}

	if cli.GetOptions(cmd).JSONOutput {
		result := validateResult{
			Valid:    true,
			Path:     path,
			Hooks:    d.Plan().Len(),
			Warnings: d.Warnings,
		}
		if result.Warnings == nil {
			result.Warnings = []errors.FieldError{}
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	cli.RenderWarnings(cmd.ErrOrStderr(), d.Warnings)
	cli.RenderSuccess(cmd.OutOrStdout(), path, d.Plan().Len())
	return nil
}

func watchDescriptor(cmd *cobra.Command, path string, loader *descriptor.Loader, debounce time.Duration, handler *cli.ErrorHandler) error {
	logger := cli.NewCommandLogger(cmd, "watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := descriptor.NewWatcher(path, loader, debounce, func(ev descriptor.WatchEvent) {
		handler.Handle(reportValidation(cmd, ev.Path, ev.Descriptor, ev.Err))
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch descriptor").WithDetail("path", path)
	}
	defer w.Close()
	w.SetLogger(logger)

	logger.Infof("Watching %s for changes (Ctrl+C to stop)", path)
	if err := w.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
