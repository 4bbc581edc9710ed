package application

import (
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

const titleSeparator = " • "

// NewFriendListItem projects a Friend: name over phone number.
func NewFriendListItem(friend model.Friend, selectFn func(model.Friend)) ListItem {
	return ListItem{
		Title:    friend.Name,
		Subtitle: friend.Phone,
		Select:   bindSelect(friend, selectFn),
	}
}

// NewCardListItem projects a Card: number as supplied over holder name.
func NewCardListItem(card model.Card, selectFn func(model.Card)) ListItem {
	return ListItem{
		Title:    card.Number,
		Subtitle: card.Holder,
		Select:   bindSelect(card, selectFn),
	}
}

// NewTransferListItem projects a Transfer. The title is the formatted amount
// and the description. With longDateStyle the subtitle names the recipient
// and uses the long date preset; otherwise it names the sender with the short
// preset.
func NewTransferListItem(transfer model.Transfer, longDateStyle bool, f *Formatter, selectFn func(model.Transfer)) ListItem {
	title := f.Amount(transfer.Amount, transfer.CurrencyCode) + titleSeparator + transfer.Description

	var subtitle string
	if longDateStyle {
		subtitle = "Sent to: " + transfer.Recipient + " on " + f.Date(transfer.Date, DateStyleLong)
	} else {
		subtitle = "Received from: " + transfer.Sender + " on " + f.Date(transfer.Date, DateStyleShort)
	}

	return ListItem{
		Title:    title,
		Subtitle: subtitle,
		Select:   bindSelect(transfer, selectFn),
	}
}

func bindSelect[T any](item T, selectFn func(T)) func() {
	if selectFn == nil {
		return func() {}
	}
	return func() { selectFn(item) }
}
