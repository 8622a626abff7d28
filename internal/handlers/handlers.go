package handlers

import (
	"encoding/json"
	"net/http"

	"brewratio/internal/cache"
	"brewratio/internal/live"
	"brewratio/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Config holds handler configuration options
type Config struct {
	// PublicURL is the public-facing URL for the server (e.g., https://ratio.example.com)
	// Used for constructing absolute share links
	PublicURL string
}

// Handler contains all HTTP handler methods and their dependencies.
// Dependencies are injected via the constructor for better testability.
type Handler struct {
	// provider is optional; nil disables the local cache
	provider cache.Provider
	hub      *live.Hub
	config   Config
}

// NewHandler creates a new Handler. A nil provider disables caching of form
// values; every page then starts from the defaults.
func NewHandler(provider cache.Provider, hub *live.Hub, config Config) *Handler {
	if hub == nil {
		hub = live.NewHub(provider)
	}
	return &Handler{
		provider: provider,
		hub:      hub,
		config:   config,
	}
}

// Hub returns the live session hub.
func (h *Handler) Hub() *live.Hub {
	return h.hub
}

// local returns the cache scoped to the visitor of r.
func (h *Handler) local(r *http.Request) cache.Local {
	return cache.ForVisitor(h.provider, visitorID(r))
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":         "ok",
		"cache":          h.provider != nil,
		"live_sessions":  h.hub.Count(),
		"known_visitors": metrics.GaugeValue(metrics.KnownVisitorsTotal),
	}, "health")
}

func writeJSON(w http.ResponseWriter, v interface{}, entityName string) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode " + entityName + " response")
	}
}
