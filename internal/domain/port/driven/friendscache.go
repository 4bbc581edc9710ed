package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// ErrCacheEmpty is returned by FriendsCache.Load when nothing has been saved yet.
var ErrCacheEmpty = errors.New("friends cache is empty")

// FriendsCache defines the driven port for the local offline copy of the
// friends list. Save replaces the whole set; Load returns the whole set in
// the order it was saved.
type FriendsCache interface {
	Save(ctx context.Context, friends []model.Friend) error
	Load(ctx context.Context) ([]model.Friend, error)
}
