package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

type favoritesResponse struct {
	IDs       []string                `json:"ids"`
	Resources []domain.ResourceRecord `json:"resources"`
}

type toggleResponse struct {
	ID        string   `json:"id"`
	Favorite  bool     `json:"favorite"`
	Persisted bool     `json:"persisted"`
	IDs       []string `json:"ids"`
}

// ListFavorites returns the favorite IDs and the matching records in
// catalog order.
func ListFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favs := d.Favorites.Current()

		records := make([]domain.ResourceRecord, 0, favs.Len())
		for _, rec := range d.Catalog.All() {
			if favs.Has(rec.ID) {
				records = append(records, rec)
			}
		}
		writeJSON(w, http.StatusOK, favoritesResponse{IDs: favs.IDs(), Resources: records})
	}
}

// ToggleFavorite flips one record. Unknown IDs are rejected with 404.
// A failed write still flips the in-memory set and reports persisted=false.
func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if !d.Catalog.Has(id) {
			writeError(w, http.StatusNotFound, "unknown resource: "+id)
			return
		}

		next, err := d.Favorites.ToggleCurrent(r.Context(), id)
		if err != nil {
			d.Logger.Warn("favorite toggled in memory only",
				logger.String("id", id),
				logger.Error(err))
		}

		writeJSON(w, http.StatusOK, toggleResponse{
			ID:        id,
			Favorite:  next.Has(id),
			Persisted: err == nil,
			IDs:       next.IDs(),
		})
	}
}
