package routing

import (
	"net/http"

	"brewratio/internal/handlers"
	"brewratio/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers      *handlers.Handler
	Logger        zerolog.Logger
	SecureCookies bool

	// RateLimits defaults to middleware.NewDefaultRateLimitConfig
	RateLimits *middleware.RateLimitConfig
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Create CrossOriginProtection for CSRF protection
	cop := http.NewCrossOriginProtection()

	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.Handle("POST /change", cop.Handler(http.HandlerFunc(h.HandleChange)))

	// Stateless calculation, never touches the visitor's cache
	mux.HandleFunc("GET /api/ratio", h.HandleRatioAPI)

	// Live page session over websocket
	mux.HandleFunc("GET /live", h.HandleLive)

	mux.Handle("GET /static/", http.StripPrefix("/static/", handlers.StaticHandler()))

	mux.HandleFunc("GET /healthz", h.HandleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (outermost first, innermost last)
	var handler http.Handler = mux

	// 1. Limit request body size (innermost - runs first on request)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Compress responses
	handler = middleware.CompressMiddleware(handler)

	// 3. Trace requests
	handler = middleware.TracingMiddleware(handler)

	// 4. Apply rate limiting
	rateLimitConfig := cfg.RateLimits
	if rateLimitConfig == nil {
		rateLimitConfig = middleware.NewDefaultRateLimitConfig()
	}
	handler = middleware.RateLimitMiddleware(rateLimitConfig)(handler)

	// 5. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 6. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 7. Tag requests with an id
	handler = middleware.RequestIDMiddleware(handler)

	// 8. Assign visitor ids (outermost, so the logger sees them)
	handler = middleware.VisitorMiddleware(cfg.SecureCookies)(handler)

	return handler
}
