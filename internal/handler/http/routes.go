package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLoggerContext)
	router.Use(h.withLogging)

	// all routes require the configured token
	router.Group(func(r chi.Router) {
		r.Use(h.checkToken)

		r.Get("/user", h.getUser)
		r.Get("/repos/{owner}/{repo}/contents/*", h.getContents)
		r.Put("/repos/{owner}/{repo}/contents/*", h.putContents)
	})

	return router
}
