package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yegors/metar-epd/internal/app"
	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

// Router wires the API handlers into a chi mux
type Router struct {
	handler *Handler
	logger  *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(application *app.App, cfg *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler: NewHandler(application, cfg, logger),
		logger:  logger.Named("api-router"),
	}
}

// Routes returns the HTTP handler with all routes registered
func (r *Router) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(30 * time.Second))

	mux.Route("/api", func(api chi.Router) {
		api.Get("/health", r.handler.GetHealth)
		api.Get("/status", r.handler.GetStatus)
		api.Get("/config", r.handler.GetConfig)
		api.Post("/refresh", r.handler.PostRefresh)
	})

	return mux
}
