package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samhoang/capable/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
	Long: `Inspect and create capable.toml settings.

Settings are read from --config, ./capable.toml or the user config directory,
then overridden by CAPABLE_* environment variables.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default config.toml",
	Long: `Write the default settings to $XDG_CONFIG_HOME/capable/config.toml.

Example config.toml:

  sources_dir = "~/.capable"
  origin = "capable"
  base = "vendor/capable/"
  ref = "master"
  freshness_seconds = 300
  jobs = 1`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(dir, "config.toml")
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configPath); err == nil && !configForce {
		fmt.Fprintf(out, "Config already exists: %s\n", configPath)
		fmt.Fprintln(out, "Edit it directly or pass --force to regenerate.")
		return nil
	}

	if err := config.DefaultSettings().Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out, SuccessStyle.Render("Created: "+configPath))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := settings.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
