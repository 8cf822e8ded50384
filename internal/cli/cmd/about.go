package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		renderer := styles.NewAboutRenderer(app.Theme)
		fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(app.BuildInfo))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}
