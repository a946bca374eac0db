package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
)

type categoryResponse struct {
	ID          domain.CategoryID `json:"id"`
	Label       string            `json:"label"`
	Icon        string            `json:"icon"`
	Description string            `json:"description"`
	Count       int               `json:"count"`
}

type categoriesResponse struct {
	Default    domain.CategoryID  `json:"default"`
	Categories []categoryResponse `json:"categories"`
}

// resourceResponse is a record annotated with the caller's favorite flag.
type resourceResponse struct {
	domain.ResourceRecord
	Favorite bool `json:"favorite"`
}

type resourcesResponse struct {
	Category  domain.CategoryID  `json:"category"`
	Query     string             `json:"query"`
	Title     string             `json:"title"`
	Searching bool               `json:"searching"`
	Count     int                `json:"count"`
	Resources []resourceResponse `json:"resources"`
}

// Categories lists the data categories with their record counts.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats := d.Catalog.Categories()
		out := categoriesResponse{
			Default:    domain.DefaultViewState().Category,
			Categories: make([]categoryResponse, 0, len(cats)),
		}
		for _, c := range cats {
			out.Categories = append(out.Categories, categoryResponse{
				ID:          c.ID,
				Label:       c.Label,
				Icon:        c.Icon,
				Description: c.Description,
				Count:       len(d.Catalog.Records(c.ID)),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Resources returns the visible records for ?category= and ?q=.
// A non-empty query searches every category.
func Resources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := domain.DefaultViewState()
		if c := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))); c != "" {
			id := domain.CategoryID(c)
			if !domain.IsDataCategory(id) && id != domain.ViewAbout {
				writeError(w, http.StatusBadRequest, "unknown category: "+c)
				return
			}
			state = state.SelectCategory(id)
		}
		state = state.SetQuery(r.URL.Query().Get("q"))

		visible := state.Visible(d.Catalog)
		favs := d.Favorites.Current()

		out := resourcesResponse{
			Category:  state.Category,
			Query:     strings.TrimSpace(state.Query),
			Title:     state.Title(d.Catalog),
			Searching: state.Searching(),
			Count:     len(visible),
			Resources: make([]resourceResponse, 0, len(visible)),
		}
		for _, rec := range visible {
			out.Resources = append(out.Resources, resourceResponse{
				ResourceRecord: rec,
				Favorite:       favs.Has(rec.ID),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// About returns the design documentation view.
func About(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Catalog.About())
	}
}
