package cmd

import (
	"github.com/grovetools/hookplan/cli"
	"github.com/grovetools/hookplan/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the hookplan command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"hookplan",
		"Load, validate and plan .pre-commit-config.yaml hook pipelines",
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewPlanCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("hookplan"))

	return rootCmd
}
