package cmd

import (
	"github.com/grovetools/hookplan/cli"
	"github.com/grovetools/hookplan/descriptor"
	"github.com/spf13/cobra"
)

func NewExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Re-serialize a validated descriptor as YAML or TOML",
		Long: `Loads and validates the descriptor, then writes it back out in the
requested format. Unknown fields are carried through unchanged; CI defaults
are only written when the source declared a ci block.`,
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

			data, err := descriptor.Marshal(d, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", descriptor.FormatYAML, "Output format: yaml or toml")

	return cmd
}
