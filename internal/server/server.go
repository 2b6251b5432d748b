// Package server provides HTTP server initialization and lifecycle management
// for the Kindred tree API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scrypster/kindred/internal/config"
	"github.com/scrypster/kindred/internal/engine"
	"github.com/scrypster/kindred/internal/presentation"
	"github.com/scrypster/kindred/web/handlers"
)

// Options carries everything Start wires together.
type Options struct {
	Config *config.Config
	Engine *engine.Engine

	// Reloader backs POST /api/reload. Optional.
	Reloader handlers.Reloader
	Logger   *zap.Logger
}

// securityHeadersMiddleware adds security headers to all HTTP responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the full HTTP handler tree and the websocket hub that
// selection changes are broadcast on. The caller runs hub.Run.
func NewHandler(opts Options) (http.Handler, *handlers.WebSocketHub) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	wsHub := handlers.NewWebSocketHub(logger.Named("ws"),
		fmt.Sprintf("localhost:%d", cfg.Server.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
	)

	eng := opts.Engine
	eng.SetOnSelect(func(v engine.View) {
		wsHub.Publish(handlers.EventSelection, presentation.BuildSnapshot(v.Graph, v.Selection))
	})

	tree := handlers.NewTreeHandlers(eng, opts.Reloader, logger.Named("api"))

	apiMux := http.NewServeMux()
	tree.Register(apiMux)

	mux := http.NewServeMux()

	// Health and metrics are left open for probes and scrapers.
	mux.HandleFunc("GET /healthz", tree.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("/api/", handlers.RequireAuth(apiMux, cfg.Server.APIToken))

	// Origin validation guards the websocket instead of the token.
	mux.Handle("/ws", wsHub)

	var handler http.Handler = mux
	if cfg.Server.RateLimit > 0 {
		handler = handlers.RateLimitMiddleware(handler, handlers.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst))
	}
	handler = securityHeadersMiddleware(handler)
	return handler, wsHub
}

// Start initializes and starts the HTTP server.
// Returns the actual address being listened on (useful for testing with port 0)
// and the WebSocketHub for wiring reload broadcasts. The server shuts down
// when ctx is cancelled.
func Start(ctx context.Context, opts Options) (string, *handlers.WebSocketHub, error) {
	if opts.Config == nil || opts.Engine == nil {
		return "", nil, errors.New("server: config and engine are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	handler, wsHub := NewHandler(opts)

	addr := fmt.Sprintf("%s:%d", opts.Config.Server.Host, opts.Config.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("server: failed to listen on %s: %w", addr, err)
	}
	actualAddr := listener.Addr().String()

	go wsHub.Run()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown error", zap.Error(err))
		}
		wsHub.Stop()
	}()

	logger.Info("server listening", zap.String("addr", actualAddr))
	return actualAddr, wsHub, nil
}
