// Package server exposes the bot over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/src/conversation"
)

// Chatter runs turns and forgets sessions; *core.Processor satisfies it
type Chatter interface {
	Execute(ctx context.Context, input core.ProcessorInput) (*core.ProcessorOutput, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// Deps are the collaborators served by the router. History and Gatherer
// are optional.
type Deps struct {
	Chat     Chatter
	History  conversation.Repository
	Gatherer prometheus.Gatherer
}

// NewRouter creates the API router with all routes configured
func NewRouter(deps Deps, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(chimiddleware.Timeout(requestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"grocery_bot"}`))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	h := newHandlers(deps)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", h.chat)
		r.Delete("/sessions/{id}", h.resetSession)
		if deps.History != nil {
			r.Get("/sessions/{id}/transcript", h.transcript)
		}
	})

	return r
}
