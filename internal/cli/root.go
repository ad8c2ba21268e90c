// Package cli implements the Prody command-line interface using Cobra.
// Each subcommand maps to one engagement surface (journal, seed, streak...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prody-app/prody/internal/daemon"
)

var rootCmd = &cobra.Command{
	Use:   "prody",
	Short: "Prody — Daily wisdom and reflection tracker",
	Long: `Prody keeps two daily streaks: a wisdom streak for engaging with
the day's seed (a word, quote, proverb or phrase), and a reflection
streak for journaling. Seeds bloom when their idea shows up in your
own writing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version
	daemon.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDaemon builds a daemon from config for direct (non-HTTP) command use.
func openDaemon() (*daemon.Daemon, error) {
	return daemon.New()
}
