package domain

// CategoryID identifies a catalog category or the non-data about view.
type CategoryID string

const (
	CategoryParks    CategoryID = "parks"
	CategoryPolicy   CategoryID = "policy"
	CategoryAcademic CategoryID = "academic"
	CategoryCareer   CategoryID = "career"

	// ViewAbout is the design/branding page. It is selectable like a
	// category but never holds records.
	ViewAbout CategoryID = "about"
)

// DataCategories lists the four data categories in display order.
var DataCategories = []CategoryID{
	CategoryParks,
	CategoryPolicy,
	CategoryAcademic,
	CategoryCareer,
}

// IsDataCategory reports whether id names one of the four data categories.
func IsDataCategory(id CategoryID) bool {
	for _, c := range DataCategories {
		if c == id {
			return true
		}
	}
	return false
}

// AccessLevel describes who can open a resource.
type AccessLevel string

const (
	AccessUnspecified  AccessLevel = ""
	AccessPublic       AccessLevel = "Public"
	AccessCampusIP     AccessLevel = "Campus IP"
	AccessSubscription AccessLevel = "Subscription"
)

// Valid reports whether the access level is a known enumerant (or unset).
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessUnspecified, AccessPublic, AccessCampusIP, AccessSubscription:
		return true
	default:
		return false
	}
}

// ResourceRecord is one curated link of the directory.
type ResourceRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is unique across the whole catalog.
	// Example: p1, acad3
	ID string `json:"id"`

	// Title is the display name of the resource.
	Title string `json:"title"`

	// URL is the target the card links to.
	URL string `json:"url"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Description string `json:"description"`

	// Tags are matched by search, in declared order.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Optional metadata
	// ─────────────────────────────

	// Source is the publishing body, e.g. "State Council".
	Source string `json:"source,omitempty"`

	Access AccessLevel `json:"access,omitempty"`

	// Official marks government or institutional portals.
	Official bool `json:"official,omitempty"`

	// UpdateFreq is a free-form label such as "Daily" or "Seasonal".
	UpdateFreq string `json:"update_freq,omitempty"`
}

// clone returns a deep copy so callers cannot reach the catalog's tag slices.
func (r ResourceRecord) clone() ResourceRecord {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

// Category is a disjoint partition of the catalog.
type Category struct {
	ID          CategoryID       `json:"id"`
	Label       string           `json:"label"`
	Icon        string           `json:"icon"`
	Description string           `json:"description"`
	Records     []ResourceRecord `json:"records,omitempty"`
}

// NameOption is one branding proposal shown on the about view.
type NameOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LogoConcept describes the proposed visual identity.
type LogoConcept struct {
	Visual  string `json:"visual"`
	Colors  string `json:"colors"`
	Concept string `json:"concept"`
}

// About holds the non-data design documentation view.
type About struct {
	Names  []NameOption `json:"names"`
	Logo   LogoConcept  `json:"logo"`
	Layout string       `json:"layout"`
}
