package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/peerline/peerline/internal/config"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/peerline/peerline/internal/core/service"
)

type Handler struct {
	Relay    *service.RelayService
	Registry port.Registry
	Cfg      config.Config
}

func NewHandler(relay *service.RelayService, registry port.Registry, cfg config.Config) *Handler {
	return &Handler{
		Relay:    relay,
		Registry: registry,
		Cfg:      cfg,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	fs := http.FileServer(http.Dir(h.Cfg.StaticDir))
	r.Handle("/*", fs)

	r.Get("/ws", h.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.ServeStatus)
		r.Get("/peers/count", h.ServePeerCount)
		r.Get("/health", h.ServeHealth)
	})

	return r
}
