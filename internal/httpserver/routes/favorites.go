package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/handlers"
)

func init() { Register("favorites", registerFavorites) }

func registerFavorites(r chi.Router, d deps.Deps) {
	r.Get("/api/favorites", handlers.ListFavorites(d))
	r.Post("/api/favorites/{id}/toggle", handlers.ToggleFavorite(d))
}
