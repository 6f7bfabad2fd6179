package cli

import (
	"os"

	"github.com/grovetools/hookplan/descriptor"
	"github.com/grovetools/hookplan/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for hookplan commands
type CommandOptions struct {
	DescriptorFile string
	Verbose        bool
	JSONOutput     bool
}

// NewStandardCommand creates a new command with the standard hookplan flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				logging.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to the hook descriptor (default: search upward for "+descriptor.DescriptorNames[0]+")")

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	descriptorFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		DescriptorFile: descriptorFile,
		Verbose:        verbose,
		JSONOutput:     jsonOutput,
	}
}

// ResolveDescriptor picks the descriptor path for a command: a positional
// argument first, then --config, then an upward search from the working
// directory.
func ResolveDescriptor(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	return InitConfig(GetOptions(cmd).DescriptorFile)
}

// InitConfig returns configFile when set, otherwise the nearest descriptor
// above the working directory.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return descriptor.FindDescriptorFile(cwd)
}
