package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /app/{screen}", h.List)
	mux.HandleFunc("GET /app/{screen}/{index}", h.Detail)
	mux.HandleFunc("POST /app/{screen}/refresh", h.Refresh)
	mux.HandleFunc("POST /app/{screen}/alert/dismiss", h.DismissAlert)
}
