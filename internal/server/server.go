/*
Package server implements the application's network transport layer.
It builds the HTTP server, configures timeouts, and wires the chat assistant
and the nutrition extractor into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"MediBot/internal/aiservice"
	"MediBot/internal/assistant"
	"MediBot/internal/config"
)

// Deps are the services the HTTP handlers call into.
type Deps struct {
	// Assistant answers /chat messages.
	Assistant *assistant.Service

	// Extractor reads nutrition labels. Nil means no vision provider is
	// configured and /scan-nutrition answers 503.
	Extractor aiservice.Extractor

	// ChatEnabled is reported by /health.
	ChatEnabled bool
}

// Server holds the configuration and dependencies shared by all handlers.
type Server struct {
	cfg *config.Config

	assistant   *assistant.Service
	extractor   aiservice.Extractor
	chatEnabled bool

	startTime time.Time
}

func newServer(cfg *config.Config, deps Deps) *Server {
	a := deps.Assistant
	if a == nil {
		a = assistant.New(nil, nil, nil)
	}
	return &Server{
		cfg:         cfg,
		assistant:   a,
		extractor:   deps.Extractor,
		chatEnabled: deps.ChatEnabled,
		startTime:   time.Now(),
	}
}

// NewServer returns a configured *http.Server. The write timeout leaves room
// for one full provider call on top of request handling.
func NewServer(cfg *config.Config, deps Deps) *http.Server {
	app := newServer(cfg, deps)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 30*time.Second,
	}
}
