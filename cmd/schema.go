package cmd

import (
	"fmt"

	"github.com/grovetools/hookplan/descriptor"
	"github.com/grovetools/hookplan/schema"
	"github.com/spf13/cobra"
)

func NewSchemaCmd() *cobra.Command {
	var embedded bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for hook descriptors",
		Long: `Prints a JSON Schema reflected from the descriptor types, suitable for
editor integration. --embedded prints the schema used by validate --strict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if embedded {
				_, err := cmd.OutOrStdout().Write(schema.Raw())
				return err
			}
			data, err := descriptor.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&embedded, "embedded", false, "Print the schema used by strict validation")

	return cmd
}
