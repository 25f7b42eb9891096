package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter installs middleware and registers the HTTP routes.
// serveWS upgrades /ws; static is served at the root.
func NewRouter(h *Handler, serveWS http.HandlerFunc, static fs.FS) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Get("/history", h.History)
		r.Get("/leaderboard", h.Leaderboard)
	})

	if serveWS != nil {
		r.Get("/ws", serveWS)
	}
	if static != nil {
		r.Handle("/*", http.FileServer(http.FS(static)))
	}
	return r
}
