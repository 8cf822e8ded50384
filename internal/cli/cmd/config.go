package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/tabsaver/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the host configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := GetApp().Manager.GetConfigFileUsed()
		if path == "" {
			path, _ = config.GetConfigFile()
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after defaults, the config file, and
TABSAVER_* environment overrides have been merged.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := toml.Marshal(GetApp().Config)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema for the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := config.GenerateSchema()
		if err != nil {
			return fmt.Errorf("generating schema: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configPrintCmd, configSchemaCmd)
	rootCmd.AddCommand(configCmd)
}
