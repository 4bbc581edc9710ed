package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// screens: print every screen id with its title and action.
func screensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the available screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, s := range appCtx.Screens.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-10s %s\n", s.ID(), s.Title(), s.Action())
			}
			return nil
		},
	}
}
