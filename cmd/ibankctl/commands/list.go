package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// list: load one screen and print its rows.
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <screen>",
		Short: "Load a screen and print its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, items, err := loadScreen(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No %s.\n", screen.Title())
				return nil
			}
			for i, item := range items {
				fmt.Fprintf(out, "%3d  %s\n     %s\n", i, item.Title, item.Subtitle)
			}
			return nil
		},
	}
}
