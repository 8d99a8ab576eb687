package cmd

import (
	"github.com/spf13/cobra"
)

// completeFilesWithExt returns a completion function offering files with the given extensions
func completeFilesWithExt(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeAnyFile completes the single optional file argument
func completeAnyFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}

func init() {
	packageCmd.ValidArgsFunction = completeAnyFile
	checkListCmd.ValidArgsFunction = completeFilesWithExt("list", "yaml", "yml", "toml", "cue")
	verifyCmd.ValidArgsFunction = completeFilesWithExt("load")
	cleanupCmd.ValidArgsFunction = completeFilesWithExt("load")
}
