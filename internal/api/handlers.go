// Package api exposes the admin/status HTTP interface for the display.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yegors/metar-epd/internal/app"
	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	app    *app.App
	config *config.Config
	logger *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(application *app.App, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		app:    application,
		config: config,
		logger: logger.Named("api-handler"),
	}
}

// GetStatus returns the display loop state
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.app.Status())
}

// GetConfig returns the active configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"station": h.config.Station,
		"display": h.config.Display,
		"wx": map[string]interface{}{
			"api_base_url":            h.config.Weather.APIBaseURL,
			"request_timeout_seconds": h.config.Weather.RequestTimeoutSeconds,
			"max_retries":             h.config.Weather.MaxRetries,
		},
	})
}

// PostRefresh requests an immediate re-render
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Refresh requested via API")
	h.app.Refresh()
	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":       "accepted",
		"requested_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetHealth is a liveness probe
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
