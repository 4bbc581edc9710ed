package application

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ ItemService = (*FriendsAPIService)(nil)
	_ ItemService = (*CachedFriendsService)(nil)
	_ ItemService = (*CardsAPIService)(nil)
	_ ItemService = (*TransfersAPIService)(nil)
)

// FriendsAPIService loads friends from the remote API and writes every
// successful result to the cache before projecting it.
type FriendsAPIService struct {
	api      driven.FriendsAPI
	cache    driven.FriendsCache
	selectFn func(model.Friend)
	logger   *slog.Logger
}

// NewFriendsAPIService creates a FriendsAPIService. Pass a discarding cache to
// disable caching for this instance.
func NewFriendsAPIService(api driven.FriendsAPI, cache driven.FriendsCache, selectFn func(model.Friend), logger *slog.Logger) *FriendsAPIService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FriendsAPIService{api: api, cache: cache, selectFn: selectFn, logger: logger}
}

// LoadItems fetches friends, saves them to the cache and returns the fetched
// list. A cache write failure is logged and does not change the result.
func (s *FriendsAPIService) LoadItems(ctx context.Context) ([]ListItem, error) {
	friends, err := s.api.FetchFriends(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(ctx, slices.Clone(friends)); err != nil {
		s.logger.Warn("friends cache save failed", "count", len(friends), "error", err)
	}

	return projectFriends(friends, s.selectFn), nil
}

// CachedFriendsService loads friends from the local cache.
type CachedFriendsService struct {
	cache    driven.FriendsCache
	selectFn func(model.Friend)
}

// NewCachedFriendsService creates a CachedFriendsService.
func NewCachedFriendsService(cache driven.FriendsCache, selectFn func(model.Friend)) *CachedFriendsService {
	return &CachedFriendsService{cache: cache, selectFn: selectFn}
}

// LoadItems reads the cached friends and projects them like the API adapter.
func (s *CachedFriendsService) LoadItems(ctx context.Context) ([]ListItem, error) {
	friends, err := s.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	return projectFriends(friends, s.selectFn), nil
}

// CardsAPIService loads cards from the remote API.
type CardsAPIService struct {
	api      driven.CardsAPI
	selectFn func(model.Card)
}

// NewCardsAPIService creates a CardsAPIService.
func NewCardsAPIService(api driven.CardsAPI, selectFn func(model.Card)) *CardsAPIService {
	return &CardsAPIService{api: api, selectFn: selectFn}
}

// LoadItems fetches and projects every card.
func (s *CardsAPIService) LoadItems(ctx context.Context) ([]ListItem, error) {
	cards, err := s.api.FetchCards(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(cards))
	for _, card := range cards {
		items = append(items, NewCardListItem(card, s.selectFn))
	}
	return items, nil
}

// TransferOptions configures which side of the transfer history a
// TransfersAPIService shows and how dates are rendered.
type TransferOptions struct {
	LongDateStyle bool
	IsSender      bool
}

// TransfersAPIService loads the transfer history and keeps only the transfers
// whose IsSender flag matches its options.
type TransfersAPIService struct {
	api       driven.TransfersAPI
	formatter *Formatter
	opts      TransferOptions
	selectFn  func(model.Transfer)
}

// NewTransfersAPIService creates a TransfersAPIService.
func NewTransfersAPIService(api driven.TransfersAPI, formatter *Formatter, opts TransferOptions, selectFn func(model.Transfer)) *TransfersAPIService {
	return &TransfersAPIService{api: api, formatter: formatter, opts: opts, selectFn: selectFn}
}

// LoadItems fetches transfers, filters them by direction and projects the
// survivors with the configured date style.
func (s *TransfersAPIService) LoadItems(ctx context.Context) ([]ListItem, error) {
	transfers, err := s.api.FetchTransfers(ctx)
	if err != nil {
		return nil, err
	}

	sent, received := model.PartitionTransfers(transfers)
	selected := received
	if s.opts.IsSender {
		selected = sent
	}

	items := make([]ListItem, 0, len(selected))
	for _, t := range selected {
		items = append(items, NewTransferListItem(t, s.opts.LongDateStyle, s.formatter, s.selectFn))
	}
	return items, nil
}

func projectFriends(friends []model.Friend, selectFn func(model.Friend)) []ListItem {
	items := make([]ListItem, 0, len(friends))
	for _, friend := range friends {
		items = append(items, NewFriendListItem(friend, selectFn))
	}
	return items
}
