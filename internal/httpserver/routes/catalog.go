package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/handlers"
)

func init() { Register("catalog", registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Get("/api/categories", handlers.Categories(d))
	r.Get("/api/resources", handlers.Resources(d))
	r.Get("/api/about", handlers.About(d))
}
