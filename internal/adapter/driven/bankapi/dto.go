package bankapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ericfisherdev/ibank/internal/domain/model"
)

type friendDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (d friendDTO) toModel() model.Friend {
	return model.Friend{Name: d.Name, Phone: d.Phone}
}

type cardDTO struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
}

func (d cardDTO) toModel() model.Card {
	return model.Card{Number: d.Number, Holder: d.Holder}
}

// transferDTO carries the amount as a JSON string or number; decimal.Decimal
// accepts both without going through float64.
type transferDTO struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Sender       string          `json:"sender"`
	Recipient    string          `json:"recipient"`
	IsSender     bool            `json:"is_sender"`
}

func (d transferDTO) toModel() (model.Transfer, error) {
	date, err := time.Parse(time.RFC3339, d.Date)
	if err != nil {
		return model.Transfer{}, fmt.Errorf("parse date %q: %w", d.Date, err)
	}

	return model.Transfer{
		Amount:       d.Amount,
		CurrencyCode: strings.ToUpper(d.CurrencyCode),
		Description:  d.Description,
		Date:         date,
		Sender:       d.Sender,
		Recipient:    d.Recipient,
		IsSender:     d.IsSender,
	}, nil
}

type userDTO struct {
	Name      string `json:"name"`
	IsPremium bool   `json:"is_premium"`
}

func (d userDTO) toModel() model.User {
	return model.User{Name: d.Name, IsPremium: d.IsPremium}
}

type errorDTO struct {
	Error string `json:"error"`
}
