package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// Retry budgets per screen.
const (
	friendsRetries   = 2
	transfersRetries = 1
)

// ScreenDeps carries everything NewScreens needs to build the service graphs.
// Premium is read once here and never re-checked.
type ScreenDeps struct {
	FriendsAPI   driven.FriendsAPI
	CardsAPI     driven.CardsAPI
	TransfersAPI driven.TransfersAPI
	FriendsCache driven.FriendsCache
	Formatter    *Formatter
	Premium      bool
	Recorder     driven.LoadRecorder
	Logger       *slog.Logger
}

// Screens is the fixed set of list screens in tab order.
type Screens struct {
	order []*ListScreen
	byID  map[model.ScreenID]*ListScreen
}

// NewScreens builds the friends, sent, received and cards screens. The
// service graph of each screen is assembled here once and not changed later.
func NewScreens(deps ScreenDeps) *Screens {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	friends := NewListScreen(model.ScreenFriends, "Friends", "Add Friend", nil, deps.Logger)
	friends.service = FriendsService(deps, func(f model.Friend) { friends.show(model.FriendItem(f)) })

	sent := NewListScreen(model.ScreenSent, "Sent", "Send", nil, deps.Logger)
	sent.service = TransfersService(deps, TransferOptions{LongDateStyle: true, IsSender: true},
		func(t model.Transfer) { sent.show(model.TransferItem(t)) })

	received := NewListScreen(model.ScreenReceived, "Received", "Request", nil, deps.Logger)
	received.service = TransfersService(deps, TransferOptions{LongDateStyle: false, IsSender: false},
		func(t model.Transfer) { received.show(model.TransferItem(t)) })

	cards := NewListScreen(model.ScreenCards, "Cards", "Add Card", nil, deps.Logger)
	cards.service = CardsService(deps, func(c model.Card) { cards.show(model.CardItem(c)) })

	order := []*ListScreen{friends, sent, received, cards}
	byID := make(map[model.ScreenID]*ListScreen, len(order))
	for _, s := range order {
		byID[s.id] = s
	}

	deps.Logger.Info("screens built", "premium", deps.Premium, "count", len(order))

	return &Screens{order: order, byID: byID}
}

// Get returns the screen with the given id.
func (s *Screens) Get(id model.ScreenID) (*ListScreen, bool) {
	screen, ok := s.byID[id]
	return screen, ok
}

// All returns the screens in tab order.
func (s *Screens) All() []*ListScreen {
	out := make([]*ListScreen, len(s.order))
	copy(out, s.order)
	return out
}

// FriendsService builds the friends graph: the API adapter retried twice,
// writing to the cache only for premium viewers, and for premium viewers a
// final fallback to the cache once every API attempt has failed.
func FriendsService(deps ScreenDeps, selectFn func(model.Friend)) ItemService {
	var cache driven.FriendsCache = discardCache{}
	if deps.Premium {
		cache = deps.FriendsCache
	}

	api := Observe("friends_api", NewFriendsAPIService(deps.FriendsAPI, cache, selectFn, deps.Logger), deps.Recorder, deps.Logger)
	svc := Retry(api, friendsRetries)
	if !deps.Premium {
		return svc
	}

	cached := Observe("friends_cache", NewCachedFriendsService(deps.FriendsCache, selectFn), deps.Recorder, deps.Logger)
	return Fallback(svc, cached)
}

// TransfersService builds a transfers graph for one direction, retried once.
func TransfersService(deps ScreenDeps, opts TransferOptions, selectFn func(model.Transfer)) ItemService {
	source := "received_transfers_api"
	if opts.IsSender {
		source = "sent_transfers_api"
	}
	api := Observe(source, NewTransfersAPIService(deps.TransfersAPI, deps.Formatter, opts, selectFn), deps.Recorder, deps.Logger)
	return Retry(api, transfersRetries)
}

// CardsService builds the cards graph: no retry and no fallback.
func CardsService(deps ScreenDeps, selectFn func(model.Card)) ItemService {
	return Observe("cards_api", NewCardsAPIService(deps.CardsAPI, selectFn), deps.Recorder, deps.Logger)
}

// discardCache is the cache handed to non-premium viewers. Save drops the
// data and Load always reports an empty cache.
type discardCache struct{}

func (discardCache) Save(context.Context, []model.Friend) error { return nil }

func (discardCache) Load(context.Context) ([]model.Friend, error) {
	return nil, driven.ErrCacheEmpty
}
