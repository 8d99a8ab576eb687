package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samhoang/capable/internal/source"
)

var packageJobs int

var packageCmd = &cobra.Command{
	Use:   "package [file]",
	Short: "Fetch every imported capability and write it into this repository",
	Long: `Evaluate an import file (default: Capable) and package every source it names.

Each source is fetched into the sources directory, its Capable.list is read at
the requested ref, and each capability is written to its target. Once every
target is saved the provenance manifest (Capable.load) is written.

The import file may also be YAML, TOML or CUE, picked by extension:

  capable package Capable.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPackage,
}

func init() {
	packageCmd.Flags().IntVarP(&packageJobs, "jobs", "j", 0, "sources processed concurrently per phase (default from config)")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	name, data, err := inputFile(args, settings.ImportFile)
	if err != nil {
		return err
	}

	if packageJobs > 0 {
		settings.Jobs = packageJobs
	}
	logger.Debug("packaging", "file", name, "jobs", settings.Jobs, "sources_dir", settings.SourcesDir)

	parser := source.NewSourceParser(name, data, sourceEnv(cmd))
	return parser.Package(cmd.Context())
}

// sourceEnv wires the command's streams and the resolved settings into a source.Env
func sourceEnv(cmd *cobra.Command) source.Env {
	return source.Env{
		Settings: settings,
		Fs:       appFs,
		Logger:   logger,
		Syncer:   &source.GitSyncer{Logger: logger},
		Out:      cmd.OutOrStdout(),
		ErrOut:   cmd.ErrOrStderr(),
	}
}
