// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/ibank/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/ibank/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// ScreenSource looks up list screens. *application.Screens satisfies it.
type ScreenSource interface {
	Get(id model.ScreenID) (*application.ListScreen, bool)
	All() []*application.ListScreen
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	screens   ScreenSource
	formatter *application.Formatter
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(screens ScreenSource, formatter *application.Formatter, logger *slog.Logger) *Handler {
	return &Handler{
		screens:   screens,
		formatter: formatter,
		logger:    logger,
	}
}

// Root redirects to the first screen.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	target := "/app/" + string(model.ScreenFriends)
	if all := h.screens.All(); len(all) > 0 {
		target = screenPath(all[0].ID())
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// List renders a screen, loading it first when it holds no rows. A failed
// load still renders the page, with the screen's alert on top.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}

	token := csrfToken(w, r)

	// The failure is surfaced through screen.Alert.
	_, _ = screen.EnsureLoaded(context.WithoutCancel(r.Context()))

	page := toListPage(screen, toTabs(h.screens.All(), screen.ID()), screen.Rows(), token)
	h.render(w, r, page.Title, pages.ScreenList(page))
}

// Detail selects a row and renders the selected item.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid row index", http.StatusBadRequest)
		return
	}

	if err := screen.Select(index); err != nil {
		if errors.Is(err, application.ErrRowNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to select row", "screen", screen.ID(), "index", index, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	item, ok := screen.Selected()
	if !ok {
		http.NotFound(w, r)
		return
	}

	page := toDetailPage(screen, toTabs(h.screens.All(), screen.ID()), item, h.formatter)
	h.render(w, r, page.Title, pages.ItemDetail(page))
}

// Refresh reloads the screen and redirects back to it. A refresh already in
// progress is not duplicated; the redirect then shows whatever it produces.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	done := make(chan struct{})
	started := screen.Refresh(context.WithoutCancel(r.Context()), func([]application.ListItem, error) {
		close(done)
	})
	if started {
		select {
		case <-done:
		case <-r.Context().Done():
			return
		}
	} else {
		h.logger.Debug("refresh already running", "screen", screen.ID())
	}

	http.Redirect(w, r, screenPath(screen.ID()), http.StatusSeeOther)
}

// DismissAlert acknowledges the screen's alert and redirects back to it.
func (h *Handler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	screen.DismissAlert()
	http.Redirect(w, r, screenPath(screen.ID()), http.StatusSeeOther)
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request) (*application.ListScreen, bool) {
	screen, ok := h.screens.Get(model.ScreenID(r.PathValue("screen")))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return screen, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
