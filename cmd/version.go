package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tabler/pkg/settings"
)

// cliVersionString builds a human-readable version string for CLI output and Cobra's --version flag.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)\nby %s: %s",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version(),
		settings.Author, settings.About)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print " + settings.CliBinaryName + " version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}
