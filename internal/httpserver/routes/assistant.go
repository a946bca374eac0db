package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/mw"
)

func init() { Register("assistant", registerAssistant) }

func registerAssistant(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.ChatBurst,
		RefillPerIPPerMin: d.ChatRefillPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})

	r.Route("/api/assistant/sessions", func(r chi.Router) {
		r.Post("/", handlers.CreateSession(d))
		r.Get("/{id}", handlers.GetSession(d))
		r.With(limit).Post("/{id}/messages", handlers.PostMessage(d))
		r.Post("/{id}/reset", handlers.ResetSession(d))
	})
}
