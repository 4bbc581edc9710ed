package model

// Card is a payment card on the viewer's account. Number is kept exactly as
// the bank supplies it, which is usually already masked.
type Card struct {
	Number string
	Holder string
}
