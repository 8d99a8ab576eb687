package cmd

import (
	"github.com/spf13/cobra"

	apperrors "github.com/samhoang/capable/internal/errors"
	"github.com/samhoang/capable/internal/manifest"
)

var verifyCmd = &cobra.Command{
	Use:     "verify [file]",
	Aliases: []string{"check-status"},
	Short:   "Check packaged files against the provenance manifest",
	Long: `Compare every target recorded in the manifest (default: Capable.load) with
the digest recorded when it was packaged.

Missing and modified targets are reported on stderr. The exit status is the
number of findings, capped at 255.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	name, data, err := inputFile(args, settings.LoadFile)
	if err != nil {
		return err
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	detector := manifest.NewDetector(appFs, logger)
	count := detector.Check(m, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if count > 0 {
		return &ExitError{Code: exitCode(count), Err: apperrors.NewDriftError(name, count)}
	}
	return nil
}
