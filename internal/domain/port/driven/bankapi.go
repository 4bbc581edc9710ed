package driven

import (
	"context"

	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// FriendsAPI defines the driven port for the remote friends list.
type FriendsAPI interface {
	FetchFriends(ctx context.Context) ([]model.Friend, error)
}

// CardsAPI defines the driven port for the remote cards list.
type CardsAPI interface {
	FetchCards(ctx context.Context) ([]model.Card, error)
}

// TransfersAPI defines the driven port for the remote transfer history.
// It returns both sent and received transfers; callers filter on IsSender.
type TransfersAPI interface {
	FetchTransfers(ctx context.Context) ([]model.Transfer, error)
}

// SessionAPI defines the driven port for the signed-in viewer.
type SessionAPI interface {
	FetchUser(ctx context.Context) (model.User, error)
}
