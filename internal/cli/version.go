package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the released version of railwatchd.
const Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the railwatchd version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "railwatchd v%s\n", Version)
			return nil
		},
	}
}
