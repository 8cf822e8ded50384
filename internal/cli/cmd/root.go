// Package cmd provides Cobra CLI commands for tabsaver.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/cli"
	"github.com/bnema/tabsaver/internal/cli/styles"
)

var (
	app       *cli.App
	buildInfo styles.BuildInfo
	rootCmd   = &cobra.Command{
		Use:   "tabsaver",
		Short: "Native messaging host for the TabSaver browser extension",
		Long: `TabSaver host - the native side of the TabSaver browser extension.

The extension delegates its heavy lifting to this host over native
messaging: exporting tabs into dated bookmark folders, freezing tabs into
lightweight placeholders, thawing them with scroll restoration, bookmark
deduplication, and memory savings accounting.

The browser launches 'tabsaver serve' automatically via the native
messaging manifest. The other subcommands inspect the host's local state
from a regular terminal.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets build information (called from main before Execute).
func SetBuildInfo(version, commit, date string) {
	buildInfo = styles.BuildInfo{Version: version, Commit: commit, Date: date}
}
