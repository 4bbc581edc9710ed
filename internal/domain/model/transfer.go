package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a single money movement between the viewer and a counterparty.
// IsSender is true when the viewer sent the money.
type Transfer struct {
	Amount       decimal.Decimal
	CurrencyCode string
	Description  string
	Date         time.Time
	Sender       string
	Recipient    string
	IsSender     bool
}

// PartitionTransfers splits transfers into those the viewer sent and those the
// viewer received. Every input lands in exactly one of the two slices and the
// relative order is preserved.
func PartitionTransfers(transfers []Transfer) (sent, received []Transfer) {
	sent = []Transfer{}
	received = []Transfer{}
	for _, t := range transfers {
		if t.IsSender {
			sent = append(sent, t)
		} else {
			received = append(received, t)
		}
	}
	return sent, received
}
