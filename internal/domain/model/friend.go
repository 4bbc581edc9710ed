package model

// Friend is a contact the viewer can send money to.
type Friend struct {
	Name  string
	Phone string
}
