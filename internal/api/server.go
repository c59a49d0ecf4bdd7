// Package api exposes the bot over HTTP: a JSON chat endpoint, an SSE
// streaming variant, and health probes. Conversation history lives in an
// in-memory session store keyed by UUID; clients pass the session ID back
// with each turn.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// ServerConfig contains configuration for the API server.
type ServerConfig struct {
	Bot    ChatRunner // Required
	Logger *slog.Logger

	// TrustProxy trusts X-Real-IP/X-Forwarded-For headers for rate
	// limiting (only behind a reverse proxy).
	TrustProxy bool
	// RateBurst is the per-IP token bucket size (0 = default 30).
	RateBurst int
}

// Server is the JSON API HTTP server.
type Server struct {
	mux      *http.ServeMux
	sessions *sessionStore
}

// NewServer creates the API server with all routes configured. ctx bounds
// the session sweeper goroutine; cancel it on shutdown.
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	if cfg.Bot == nil {
		return nil, errors.New("ServerConfig.Bot is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessions := newSessionStore()
	go sessions.runSweeper(ctx)

	ch := &chatHandler{
		bot:      cfg.Bot,
		sessions: sessions,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", ch.send)
	mux.HandleFunc("POST /api/chat/stream", ch.stream)

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 30
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack, outermost first:
	//   Recovery -> RequestID -> Logging -> RateLimit -> Routes
	// RequestID sits before Logging so request_id shows up in log lines.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /api/health", health(logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux, sessions: sessions}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
