package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// ErrRowNotFound is returned by ListScreen.Select for an index outside the
// currently held rows.
var ErrRowNotFound = errors.New("row not found")

// Alert is the user-facing notice for a load that failed terminally.
type Alert struct {
	Title   string
	Message string
	Action  string
}

// ListScreen is the UI-agnostic controller behind one list screen. It owns
// the screen's ItemService, holds the last successfully loaded rows and
// records which item the user selected. At most one load runs at a time.
type ListScreen struct {
	id      model.ScreenID
	title   string
	action  string
	service ItemService
	logger  *slog.Logger

	group      singleflight.Group
	refreshing atomic.Bool

	mu       sync.RWMutex
	rows     []ListItem
	alert    *Alert
	selected *model.Item
}

// NewListScreen creates a screen backed by service. Screens built by
// NewScreens bind their select callbacks to the screen itself.
func NewListScreen(id model.ScreenID, title, action string, service ItemService, logger *slog.Logger) *ListScreen {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListScreen{
		id:      id,
		title:   title,
		action:  action,
		service: service,
		logger:  logger,
	}
}

// ID returns the screen identifier.
func (s *ListScreen) ID() model.ScreenID { return s.id }

// Title returns the screen title.
func (s *ListScreen) Title() string { return s.title }

// Action returns the label of the screen's primary action, e.g. "Send".
func (s *ListScreen) Action() string { return s.action }

// Load runs the screen's ItemService. Callers that arrive while a load is in
// flight wait for it and share its outcome instead of starting another.
// On success the held rows are replaced; on failure they are kept and an
// Alert is raised.
func (s *ListScreen) Load(ctx context.Context) ([]ListItem, error) {
	v, err, shared := s.group.Do(string(s.id), func() (any, error) {
		return s.load(ctx)
	})
	if shared {
		s.logger.Debug("joined in-flight load", "screen", s.id)
	}
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]ListItem)), nil
}

func (s *ListScreen) load(ctx context.Context) ([]ListItem, error) {
	start := time.Now()
	items, err := s.service.LoadItems(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	if err != nil {
		s.alert = &Alert{Title: "Error", Message: err.Error(), Action: "Ok"}
	} else {
		s.rows = items
		s.alert = nil
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("screen load failed", "screen", s.id, "duration", elapsed, "error", err)
		return nil, err
	}

	s.logger.Info("screen loaded", "screen", s.id, "rows", len(items), "duration", elapsed)
	return items, nil
}

// EnsureLoaded loads the screen only when it holds no rows yet.
func (s *ListScreen) EnsureLoaded(ctx context.Context) ([]ListItem, error) {
	if rows := s.Rows(); len(rows) > 0 {
		return rows, nil
	}
	return s.Load(ctx)
}

// Refresh starts a load in the background and calls done with its outcome.
// It returns false without starting anything when a refresh is already
// running. done runs on the loading goroutine; moving it to a UI thread is
// the caller's job.
func (s *ListScreen) Refresh(ctx context.Context, done func([]ListItem, error)) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		items, err := s.Load(ctx)
		s.refreshing.Store(false)
		if done != nil {
			done(items, err)
		}
	}()

	return true
}

// Rows returns the rows from the last successful load.
func (s *ListScreen) Rows() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rows)
}

// Alert returns the pending error alert, if any.
func (s *ListScreen) Alert() (Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.alert == nil {
		return Alert{}, false
	}
	return *s.alert, true
}

// DismissAlert acknowledges the pending alert.
func (s *ListScreen) DismissAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alert = nil
}

// Select runs the selection action of the row at index.
func (s *ListScreen) Select(index int) error {
	s.mu.RLock()
	if index < 0 || index >= len(s.rows) {
		s.mu.RUnlock()
		return ErrRowNotFound
	}
	row := s.rows[index]
	s.mu.RUnlock()

	row.Select()
	return nil
}

// Selected returns the item most recently chosen on this screen.
func (s *ListScreen) Selected() (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.Item{}, false
	}
	return *s.selected, true
}

func (s *ListScreen) show(item model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &item
	s.logger.Debug("item selected", "screen", s.id, "kind", item.Kind)
}
