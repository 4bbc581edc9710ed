package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// ScreenSource looks up list screens. *application.Screens satisfies it.
type ScreenSource interface {
	Get(id model.ScreenID) (*application.ListScreen, bool)
	All() []*application.ListScreen
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	screens   ScreenSource
	formatter *application.Formatter
	metrics   http.Handler
	logger    *slog.Logger
}

// NewHandler creates a Handler. metrics may be nil, in which case /metrics
// is not registered.
func NewHandler(
	screens ScreenSource,
	formatter *application.Formatter,
	metrics http.Handler,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		screens:   screens,
		formatter: formatter,
		metrics:   metrics,
		logger:    logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/screens", h.ListScreens)
	mux.HandleFunc("GET /api/v1/screens/{screen}/items", h.ListItems)
	mux.HandleFunc("POST /api/v1/screens/{screen}/items/{index}/select", h.SelectItem)
	mux.HandleFunc("DELETE /api/v1/screens/{screen}/alert", h.DismissAlert)

	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListScreens returns every screen in navigation order.
func (h *Handler) ListScreens(w http.ResponseWriter, _ *http.Request) {
	screens := h.screens.All()
	resp := make([]ScreenResponse, 0, len(screens))
	for _, s := range screens {
		resp = append(resp, toScreenResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListItems returns the screen's rows, loading them first if the screen holds
// none. ?refresh=true forces a reload. A terminal load failure answers 502
// with the screen's alert.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}

	// The load updates shared screen state, so it must outlive a client that
	// hangs up mid-request.
	ctx := context.WithoutCancel(r.Context())

	var (
		items []application.ListItem
		err   error
	)
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		items, err = screen.Load(ctx)
	} else {
		items, err = screen.EnsureLoaded(ctx)
	}

	if err != nil {
		alert, ok := screen.Alert()
		if !ok {
			alert = application.Alert{Title: "Error", Message: err.Error(), Action: "Ok"}
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: err.Error(),
			Alert: toAlertResponse(alert),
		})
		return
	}

	writeJSON(w, http.StatusOK, toRowResponses(items))
}

// SelectItem runs the row's selection action and returns the selected item.
func (h *Handler) SelectItem(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row index")
		return
	}

	if err := screen.Select(index); err != nil {
		if errors.Is(err, application.ErrRowNotFound) {
			writeError(w, http.StatusNotFound, "row not found")
			return
		}
		h.logger.Error("failed to select row", "screen", screen.ID(), "index", index, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	item, ok := screen.Selected()
	if !ok {
		h.logger.Error("row selected without an item", "screen", screen.ID(), "index", index)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item, h.formatter))
}

// DismissAlert acknowledges the screen's pending error alert.
func (h *Handler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.screen(w, r)
	if !ok {
		return
	}
	screen.DismissAlert()
	w.WriteHeader(http.StatusNoContent)
}

// screen resolves the {screen} path value, writing a 404 when it is unknown.
func (h *Handler) screen(w http.ResponseWriter, r *http.Request) (*application.ListScreen, bool) {
	id := model.ScreenID(r.PathValue("screen"))
	screen, ok := h.screens.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "screen not found")
		return nil, false
	}
	return screen, true
}
