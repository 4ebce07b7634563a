package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	windowsFrom string
	windowsTo   string
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Print the UTC day windows a local date range resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		if windowsFrom == "" || windowsTo == "" {
			return fmt.Errorf("--from and --to must be provided")
		}
		return getApp().Windows(windowsFrom, windowsTo)
	},
}

func init() {
	windowsCmd.Flags().StringVar(&windowsFrom, "from", "", "Start date (YYYY-MM-DD)")
	windowsCmd.Flags().StringVar(&windowsTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
}
