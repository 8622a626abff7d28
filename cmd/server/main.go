package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewratio/internal/config"
	"brewratio/internal/handlers"
	"brewratio/internal/live"
	"brewratio/internal/metrics"
	"brewratio/internal/routing"
	"brewratio/internal/tracing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		// Logger is not configured yet, fall back to the default one
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	setupLogger(cfg, os.Stdout)

	log.Info().Msg("Starting brew ratio calculator")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEndpoint != "" {
		tp, err := tracing.Init(ctx, cfg.TracingEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
		log.Info().Str("endpoint", cfg.TracingEndpoint).Msg("Tracing enabled")
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Str("path", cfg.DBPath).Msg("Failed to open local cache")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close local cache")
		}
	}()

	log.Info().
		Str("store", cfg.Store).
		Str("path", cfg.DBPath).
		Bool("enabled", store.Provider != nil).
		Msg("Local cache ready")

	metrics.StartCollector(ctx, metrics.StatsSource{VisitorCount: store.VisitorCount}, time.Minute)

	hub := live.NewHub(store.Provider)
	h := handlers.NewHandler(store.Provider, hub, handlers.Config{
		PublicURL: cfg.PublicURL,
	})

	handler := routing.SetupRouter(routing.Config{
		Handlers:      h,
		Logger:        log.Logger,
		SecureCookies: cfg.SecureCookies,
	})

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("address", server.Addr).
		Str("url", "http://localhost:"+cfg.Port).
		Bool("secure_cookies", cfg.SecureCookies).
		Msg("Starting HTTP server")

	if err := serve(ctx, server, hub); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Server stopped")
}

// serve runs server until ctx is cancelled, then closes live sessions and
// drains in-flight requests.
func serve(ctx context.Context, server *http.Server, hub *live.Hub) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		// Hijacked websocket connections are not tracked by Shutdown
		hub.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupLogger configures the global zerolog logger. LOG_FORMAT=json selects
// JSON output, anything else the console writer.
func setupLogger(cfg *config.Config, out io.Writer) {
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if cfg.LogFormat == "json" {
		// Production: JSON logs
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		// Development: pretty console logs
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		})
	}
}
