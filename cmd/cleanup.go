package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samhoang/capable/internal/manifest"
	"github.com/samhoang/capable/internal/picker"
)

var cleanupInteractive bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [file]",
	Short: "Remove every target recorded in the provenance manifest",
	Long: `Delete the files recorded in the manifest (default: Capable.load).

Targets that are already gone are reported and skipped. With --interactive the
recorded targets are listed with their drift state and only the selected ones
are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupInteractive, "interactive", "i", false, "choose which targets to remove")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	_, data, err := inputFile(args, settings.LoadFile)
	if err != nil {
		return err
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}

	detector := manifest.NewDetector(appFs, logger)
	if !cleanupInteractive {
		return detector.Cleanup(m, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	selected, err := picker.Run("Remove packaged targets", cleanupItems(detector, m))
	if err != nil {
		return fmt.Errorf("picker: %w", err)
	}
	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), WarningStyle.Render("Nothing selected."))
		return nil
	}
	return detector.Remove(selected, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// cleanupItems lists every recorded target, preselecting the ones that drifted
func cleanupItems(detector *manifest.Detector, m *manifest.Manifest) []picker.Item {
	notes := make(map[string]string)
	for _, issue := range detector.Detect(m).Issues {
		notes[issue.Record.Target] = string(issue.Type)
	}

	var items []picker.Item
	for _, rec := range m.Records() {
		note := notes[rec.Target]
		items = append(items, picker.Item{
			ID:       rec.Target,
			Label:    rec.Provider,
			Note:     note,
			Selected: note != "",
		})
	}
	return items
}
