package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/Tiliavir/floatsync/cmd.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "floatsync",
	Short: "floatsync – reconcile this week's Float logged time",
	Long: `floatsync asks, for each weekday of the current week, whether you worked
that day, then creates or deletes Float logged-time entries to match.

Configuration is read from FLOAT_ACCESS_KEY, FLOAT_PEOPLE_ID and
FLOAT_PROJECT_ID (or ~/.floatsync/config.yaml). Use "floatsync login" to keep
the access token in the OS keyring instead.`,
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSync,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print planned changes without writing to Float")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API requests to stderr")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
