// Package server exposes the gateway's HTTP surface: health, model catalog,
// metrics, and the OpenAI-compatible responses and chat-completions
// endpoints.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rantslabs/rants/internal/audit"
	"github.com/rantslabs/rants/internal/auth"
	"github.com/rantslabs/rants/internal/config"
	"github.com/rantslabs/rants/internal/observability"
	"github.com/rantslabs/rants/internal/orchestrator"
	"github.com/rantslabs/rants/internal/ratelimit"
	"github.com/rantslabs/rants/internal/rlm"
	"github.com/rantslabs/rants/internal/store"
	"github.com/rantslabs/rants/internal/tools"
)

// Version is reported by /health.
const Version = "0.1.0"

// Server holds the wired gateway components.
type Server struct {
	cfg     *config.Config
	store   store.Store
	orch    *orchestrator.Orchestrator
	auth    *auth.Authenticator
	limiter *ratelimit.Limiter
	metrics *observability.Metrics
	log     *slog.Logger
}

// Options carries optional overrides for New.
type Options struct {
	// Clients overrides the upstream transport, for tests.
	Clients rlm.ClientFactory
	// Metrics registers Prometheus collectors when non-nil.
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// New wires a server from configuration and a store.
func New(cfg *config.Config, st store.Store, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	engine := rlm.NewEngine(cfg, opts.Clients)
	registry := tools.NewDefaultRegistry()
	auditLogger := audit.NewLogger(st, log)
	return &Server{
		cfg:     cfg,
		store:   st,
		orch:    orchestrator.New(cfg, st, engine, registry, auditLogger, opts.Metrics, log),
		auth:    auth.NewAuthenticator(cfg.Auth),
		limiter: ratelimit.NewLimiter(cfg.RateLimits),
		metrics: opts.Metrics,
		log:     log,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/models", s.handleModels)
	mux.Handle("POST /v1/responses", s.guard(http.HandlerFunc(s.handleResponses)))
	mux.Handle("POST /v1/chat/completions", s.guard(http.HandlerFunc(s.handleChat)))
	return s.instrument(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models := []map[string]string{}
	for _, profile := range s.cfg.RLM.ListModels() {
		models = append(models, map[string]string{
			"id":     profile.Name,
			"object": "model",
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data":   models,
	})
}

// knownModel reports whether the requested model is in the RLM catalog. An
// empty model falls back to the default profile.
func (s *Server) knownModel(model string) bool {
	if model == "" {
		return true
	}
	for _, profile := range s.cfg.RLM.ListModels() {
		if profile.Name == model {
			return true
		}
	}
	return false
}
