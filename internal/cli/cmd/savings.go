package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/cli/styles"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Show memory savings from frozen tabs",
	Long: `Show the savings ledger: lifetime totals plus a per-day breakdown of
the last 30 days of freezing activity.`,
	RunE: runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(cmd *cobra.Command, _ []string) error {
	app := GetApp()

	history, err := app.Savings.Load(app.Context())
	if err != nil {
		return fmt.Errorf("loading savings history: %w", err)
	}

	renderer := styles.NewSavingsCLIRenderer(app.Theme)
	if history == nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderEmpty())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSummary(history, time.Now()))
	return nil
}
