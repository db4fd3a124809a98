package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/core"
	"github.com/inovacc/doubleblind/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage doubleblind configuration",
	Long: `Commands for managing doubleblind configuration.

Available Commands:
  show      Show the stored configuration
  set       Set one configuration key
  import    Load settings from an INI file
  reset     Restore the defaults
  path      Print the location of the configuration store`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := app.db.GetConfig()
		if err != nil {
			return err
		}

		core.ShowConfig(cmd.OutOrStdout(), cfg)

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration key",
	Long: fmt.Sprintf(`Set one configuration key.

Keys: %s

Examples:
  doubleblind config set session 0f4c...e1
  doubleblind config set page_size 50`, strings.Join(core.ConfigKeys, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := core.SetConfigValue(app.db, args[0], args[1]); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s updated\n", args[0])

		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file.ini>",
	Short: "Load settings from an INI file",
	Long: `Load settings from an INI file over the stored configuration. Keys that
the file does not set keep their current value.

  [api]
  base_url   = https://api.science.tanneberger.me
  session    = <session_id cookie>
  timeout    = 15
  rate_limit = 5
  root_domain = science.tanneberger.me

  [sync]
  page_size    = 100
  debounce_ms  = 200
  search_limit = 30

  [notify]
  slack_webhook = https://hooks.slack.com/services/...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := core.ImportConfig(app.db, args[0])
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s\n\n", args[0])
		core.ShowConfig(cmd.OutOrStdout(), cfg)

		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := core.ResetConfig(app.db)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration reset to defaults")
		core.ShowConfig(cmd.OutOrStdout(), cfg)

		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of the configuration store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := store.DefaultPath()
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configImportCmd, configResetCmd, configPathCmd)
}
