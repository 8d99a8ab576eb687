// Package cmd contains the capable command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/samhoang/capable/internal/config"
	"github.com/samhoang/capable/internal/logging"
)

var (
	// Version is set via -ldflags
	Version = "dev"

	cfgFile string
	verbose bool

	// Resolved in PersistentPreRunE for every command
	settings *config.Settings
	logger   *log.Logger
	appFs    afero.Fs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:     "capable",
	Version: Version,
	Short:   "Share files between repositories as named capabilities",
	Long:    TitleStyle.Render("capable") + SubtitleStyle.Render(" - copy declared capabilities across repositories") + `

A repository lists the files it offers in Capable.list. Another repository
names the sources and capabilities it wants in Capable; 'capable package'
fetches them, writes each file to its target and records what was copied in
Capable.load. 'capable verify' later reports targets that drifted.

` + SubtitleStyle.Render("Examples:") + `
  capable check-list          Validate this repository's Capable.list
  capable package             Fetch and write everything Capable imports
  capable verify              Check packaged files against Capable.load
  capable cleanup -i          Pick packaged files to remove`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./capable.toml, then $XDG_CONFIG_HOME/capable/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func loadSettings(cmd *cobra.Command, args []string) error {
	logger = logging.New(cmd.ErrOrStderr(), verbose)

	s, path, err := config.Load(config.LoadOptions{ConfigFile: cfgFile})
	if err != nil {
		return err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	settings = s
	return nil
}

// Execute runs the root command and exits with the command's status
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// inputFile returns the file named on the command line or the default, failing
// when it does not exist
func inputFile(args []string, fallback string) (string, []byte, error) {
	name := fallback
	if len(args) > 0 {
		name = args[0]
	}
	data, err := afero.ReadFile(appFs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return name, nil, &ExitError{Code: 1, Err: fmt.Errorf("File '%s' does not exist! Unable to load list...", name)}
		}
		return name, nil, err
	}
	return name, data, nil
}
