package main

import (
	"os"

	"github.com/grovetools/hookplan/cli"
	"github.com/grovetools/hookplan/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		jsonOutput, _ := rootCmd.PersistentFlags().GetBool("json")
		cli.NewErrorHandler(verbose, jsonOutput).Handle(err)
		os.Exit(1)
	}
}
