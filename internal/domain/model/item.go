package model

// Item is a tagged union over the domain variants shown in list screens.
// Build it with FriendItem, CardItem or TransferItem; only the field matching
// Kind is meaningful.
type Item struct {
	Kind     ItemKind
	Friend   Friend
	Card     Card
	Transfer Transfer
}

// FriendItem wraps a Friend.
func FriendItem(f Friend) Item {
	return Item{Kind: ItemKindFriend, Friend: f}
}

// CardItem wraps a Card.
func CardItem(c Card) Item {
	return Item{Kind: ItemKindCard, Card: c}
}

// TransferItem wraps a Transfer.
func TransferItem(t Transfer) Item {
	return Item{Kind: ItemKindTransfer, Transfer: t}
}
