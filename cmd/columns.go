package cmd

import (
	"github.com/spf13/cobra"
)

var columnsCmd = &cobra.Command{
	Use:   "columns PATH COLUMN...",
	Short: "Display only the named columns, in the given order",
	Long: `Display only the named columns of PATH, in the order given.

Names that do not match a column are reported on stderr as
"unknown columns: [...]" and the remaining columns are still shown. When no
name matches, every column is shown.`,
	Example: "\n  tabler columns people.csv name city\n  tabler columns report.xlsx -s Totals region sum\n",
	Args:    usageArgs(cobra.MinimumNArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFlags(cmd); err != nil {
			return err
		}
		return runTable(cmd, args[0], args[1:])
	},
}
