package domain

import "strings"

const (
	titleSearchResults = "Search Results"
	titleAbout         = "Design Documentation"
)

// ViewState is the browsing state of one directory view.
// Transitions return a new value instead of mutating the receiver.
type ViewState struct {
	Category CategoryID `json:"category"`
	Query    string     `json:"query"`
}

// DefaultViewState opens on the parks category with no search.
func DefaultViewState() ViewState {
	return ViewState{Category: CategoryParks}
}

// SelectCategory switches view and clears the search, like the sidebar does.
func (v ViewState) SelectCategory(id CategoryID) ViewState {
	return ViewState{Category: id}
}

// SetQuery updates the search text and keeps the selected category.
func (v ViewState) SetQuery(q string) ViewState {
	v.Query = q
	return v
}

// Searching reports whether a non-blank query is active.
func (v ViewState) Searching() bool {
	return strings.TrimSpace(v.Query) != ""
}

// Visible returns the records to display for this state.
// The about view shows no records, even while searching.
func (v ViewState) Visible(catalog *Catalog) []ResourceRecord {
	if v.Category == ViewAbout {
		return []ResourceRecord{}
	}
	return Filter(catalog, v.Category, v.Query)
}

// Title is the page heading for this state.
func (v ViewState) Title(catalog *Catalog) string {
	if v.Category == ViewAbout {
		return titleAbout
	}
	if v.Searching() {
		return titleSearchResults
	}
	if catalog != nil {
		if c, ok := catalog.Category(v.Category); ok {
			return c.Label
		}
	}
	return ""
}
