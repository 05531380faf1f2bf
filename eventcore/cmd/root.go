// Package cmd provides the command-line interface for eventcore.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "eventcore",
	Short: "Eventcore CLI tool can perform common tasks related to " +
		"defining event kinds for simulators built on eventcore.",
	Long: `Eventcore CLI tool can perform common tasks related to defining ` +
		`event kinds for simulators built on eventcore. Currently, it ` +
		`supports scaffolding new event kinds.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
