package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// show: load one screen, select a row and print the selected item.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <screen> <row>",
		Short: "Select a row and print the item behind it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseRow(args[1])
			if err != nil {
				return err
			}

			screen, _, err := loadScreen(cmd, args[0])
			if err != nil {
				return err
			}

			if err := screen.Select(row); err != nil {
				return fmt.Errorf("select row %d on %s: %w", row, screen.ID(), err)
			}

			item, ok := screen.Selected()
			if !ok {
				return fmt.Errorf("select row %d on %s: nothing selected", row, screen.ID())
			}
			printItem(cmd.OutOrStdout(), item, appCtx.Formatter)
			return nil
		},
	}
}

func printItem(w io.Writer, item model.Item, f *application.Formatter) {
	switch item.Kind {
	case model.ItemKindFriend:
		fmt.Fprintf(w, "Name:   %s\nPhone:  %s\n", item.Friend.Name, item.Friend.Phone)
	case model.ItemKindCard:
		fmt.Fprintf(w, "Number: %s\nHolder: %s\n", item.Card.Number, item.Card.Holder)
	case model.ItemKindTransfer:
		t := item.Transfer
		fmt.Fprintf(w, "Amount: %s\nFrom:   %s\nTo:     %s\nDate:   %s\n",
			f.Amount(t.Amount, t.CurrencyCode), t.Sender, t.Recipient, f.Date(t.Date, application.DateStyleLong))
		if t.Description != "" {
			fmt.Fprintf(w, "\n%s\n", t.Description)
		}
	}
}
