package cmd

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common setup issues",
	Long: `Check the environment capable relies on.

Checks:
- Is the git binary on PATH?
- Is the sources directory usable?
- Which of Capable, Capable.list and Capable.load exist here?`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var (
	labelOK   = SuccessStyle.Render("OK")
	labelWarn = WarningStyle.Render("WARN")
	labelFail = ErrorStyle.Render("FAIL")
)

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, TitleStyle.Render("capable doctor"))
	fmt.Fprintln(out)

	issues := 0

	fmt.Fprint(out, "Checking git binary... ")
	if path, err := exec.LookPath("git"); err != nil {
		fmt.Fprintln(out, labelFail)
		fmt.Fprintln(out, "  → git is required to clone and fetch sources")
		issues++
	} else {
		fmt.Fprintf(out, "%s → %s\n", labelOK, path)
	}

	fmt.Fprint(out, "Checking sources directory... ")
	issues += checkSourcesDir(out, settings.SourcesDir)

	for _, name := range []string{settings.ImportFile, settings.ListFile, settings.LoadFile} {
		fmt.Fprintf(out, "Checking %s... ", name)
		if ok, _ := afero.Exists(appFs, name); ok {
			fmt.Fprintln(out, labelOK)
		} else {
			fmt.Fprintln(out, labelWarn+" (not present)")
		}
	}

	fmt.Fprintln(out)
	if issues > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d issue(s) found", issues)}
	}
	fmt.Fprintln(out, SuccessStyle.Render("All checks passed."))
	return nil
}

func checkSourcesDir(out io.Writer, dir string) int {
	info, err := appFs.Stat(dir)
	switch {
	case err != nil:
		fmt.Fprintf(out, "%s → %s will be created on first package\n", labelWarn, dir)
		return 0
	case !info.IsDir():
		fmt.Fprintln(out, labelFail)
		fmt.Fprintf(out, "  → %s exists and is not a directory\n", dir)
		return 1
	}
	fmt.Fprintf(out, "%s → %s\n", labelOK, dir)
	return 0
}
