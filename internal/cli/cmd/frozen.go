package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/cli/styles"
)

var frozenCmd = &cobra.Command{
	Use:   "frozen",
	Short: "List tabs currently frozen by the extension",
	Long: `List the frozen tab states recorded in the host database. Each entry
shows the original URL, the estimated memory returned to the browser, and
how long ago the tab was frozen.`,
	RunE: runFrozen,
}

func init() {
	rootCmd.AddCommand(frozenCmd)
}

func runFrozen(cmd *cobra.Command, _ []string) error {
	app := GetApp()

	states, err := app.States.All(app.Context())
	if err != nil {
		return fmt.Errorf("loading frozen states: %w", err)
	}

	renderer := styles.NewFrozenCLIRenderer(app.Theme)
	if len(states) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderEmpty())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderList(states, time.Now()))
	return nil
}
