package cmd

import (
	"github.com/spf13/cobra"

	"github.com/samhoang/capable/internal/listing"
)

var checkListCmd = &cobra.Command{
	Use:   "check-list [file]",
	Short: "Validate this repository's capability list",
	Long: `Evaluate a capability list (default: Capable.list) and report every file
that does not exist and every dependency no listed file provides.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckList,
}

func init() {
	rootCmd.AddCommand(checkListCmd)
}

func runCheckList(cmd *cobra.Command, args []string) error {
	name, data, err := inputFile(args, settings.ListFile)
	if err != nil {
		return err
	}

	parser := listing.NewListParser(name, data, listing.WithFs(appFs), listing.WithLogger(logger))
	if err := parser.Check(cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}
