package application_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

var errNetwork = errors.New("network unreachable")

// --- Mock implementations ---

type mockFriendsAPI struct {
	mu    sync.Mutex
	calls int
	fetch func(ctx context.Context, call int) ([]model.Friend, error)
}

func (m *mockFriendsAPI) FetchFriends(ctx context.Context) ([]model.Friend, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()
	return m.fetch(ctx, call)
}

func (m *mockFriendsAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockCardsAPI struct {
	calls int
	fetch func(ctx context.Context) ([]model.Card, error)
}

func (m *mockCardsAPI) FetchCards(ctx context.Context) ([]model.Card, error) {
	m.calls++
	return m.fetch(ctx)
}

type mockTransfersAPI struct {
	calls int
	fetch func(ctx context.Context) ([]model.Transfer, error)
}

func (m *mockTransfersAPI) FetchTransfers(ctx context.Context) ([]model.Transfer, error) {
	m.calls++
	return m.fetch(ctx)
}

type mockFriendsCache struct {
	mu      sync.Mutex
	saves   [][]model.Friend
	loads   int
	saveErr error
	stored  []model.Friend
	loadErr error
}

func (m *mockFriendsCache) Saves() [][]model.Friend {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *mockFriendsCache) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func (m *mockFriendsCache) Save(_ context.Context, friends []model.Friend) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, friends)
	return m.saveErr
}

func (m *mockFriendsCache) Load(_ context.Context) ([]model.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.stored, nil
}

type mockSessionAPI struct {
	user model.User
	err  error
}

func (m *mockSessionAPI) FetchUser(_ context.Context) (model.User, error) {
	return m.user, m.err
}

type recordedLoad struct {
	source string
	err    error
}

type mockRecorder struct {
	mu    sync.Mutex
	loads []recordedLoad
}

func (m *mockRecorder) RecordLoad(source string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, recordedLoad{source: source, err: err})
}

func (m *mockRecorder) Sources() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.loads))
	for _, l := range m.loads {
		out = append(out, l.source)
	}
	return out
}

// scriptedService replays a fixed list of outcomes, one per call, and keeps
// returning the last one once the script runs out.
type scriptedService struct {
	mu       sync.Mutex
	calls    int
	outcomes []outcome
}

type outcome struct {
	items []application.ListItem
	err   error
}

func (s *scriptedService) LoadItems(_ context.Context) ([]application.ListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.outcomes) {
		idx = len(s.outcomes) - 1
	}
	return s.outcomes[idx].items, s.outcomes[idx].err
}

func (s *scriptedService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func rows(titles ...string) []application.ListItem {
	items := make([]application.ListItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, application.ListItem{Title: title, Select: func() {}})
	}
	return items
}

func titles(items []application.ListItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

// Compile-time checks that the mocks satisfy the ports.
var (
	_ driven.FriendsAPI   = (*mockFriendsAPI)(nil)
	_ driven.CardsAPI     = (*mockCardsAPI)(nil)
	_ driven.TransfersAPI = (*mockTransfersAPI)(nil)
	_ driven.FriendsCache = (*mockFriendsCache)(nil)
	_ driven.SessionAPI   = (*mockSessionAPI)(nil)
	_ driven.LoadRecorder = (*mockRecorder)(nil)
)
