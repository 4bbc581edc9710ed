package model

// User is the signed-in viewer as reported by the bank session endpoint.
type User struct {
	Name      string
	IsPremium bool
}
