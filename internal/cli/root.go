// Package cli implements the logsentry command-line interface.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/logsentry/logsentry/internal/cli.version=1.2.3"
	version = "0.4.0"
	logo    = "\n" +
		"  _                ____             _\n" +
		" | |    ___   __ _/ ___|  ___ _ __ | |_ _ __ _   _\n" +
		" | |   / _ \\ / _` \\___ \\ / _ \\ '_ \\| __| '__| | | |\n" +
		" | |__| (_) | (_| |___) |  __/ | | | |_| |  | |_| |\n" +
		" |_____\\___/ \\__, |____/ \\___|_| |_|\\__|_|   \\__, |\n" +
		"             |___/                           |___/\n"
)

var rootCmd = &cobra.Command{
	Use:   "logsentry",
	Short: "LogSentry - AI Incident Response Assistant",
	Long:  color.CyanString(logo) + "\nAn AI assistant that reads production logs, diagnoses incidents, and executes approved remediations.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
}
