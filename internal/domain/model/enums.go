package model

// ItemKind tags which variant an Item holds.
type ItemKind string

const (
	ItemKindFriend   ItemKind = "friend"
	ItemKindCard     ItemKind = "card"
	ItemKindTransfer ItemKind = "transfer"
)

// ScreenID identifies one of the list screens.
type ScreenID string

const (
	ScreenFriends  ScreenID = "friends"
	ScreenCards    ScreenID = "cards"
	ScreenSent     ScreenID = "sent"
	ScreenReceived ScreenID = "received"
)
