package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/webex-summarizer/internal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Long: `Write a config file with default settings to the --config path.

Secrets are better kept out of the file: WEBEX_TOKEN, ANTHROPIC_API_KEY and
OPENAI_API_KEY are read from the environment or from a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}

		cfg := internal.DefaultConfig()
		if outputDir != "" {
			cfg.Storage.Directory = outputDir
		}
		if err := internal.SaveConfig(configPath, cfg); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✅ Config written to "+configPath))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg.Masked())
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), sectionStyle.Render("Effective configuration"))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}
