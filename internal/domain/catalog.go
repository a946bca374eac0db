package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCatalog is wrapped by every validation failure of NewCatalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the immutable, categorized collection of resource records.
// It is built once at startup and only read afterwards, so it needs no lock.
type Catalog struct {
	categories []Category
	byID       map[string]ResourceRecord
	categoryOf map[string]CategoryID
	about      About
}

// NewCatalog validates and freezes the given categories.
//
// Rules:
//   - exactly the four data categories, each present once (any order is
//     accepted, display order follows DataCategories)
//   - record IDs unique across all categories
//   - every record has an ID, a title and a URL
//   - access levels are known enumerants
func NewCatalog(categories []Category, about About) (*Catalog, error) {
	seen := make(map[CategoryID]Category, len(categories))
	for _, c := range categories {
		if !IsDataCategory(c.ID) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCatalog, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidCatalog, c.ID)
		}
		seen[c.ID] = c
	}

	cat := &Catalog{
		categories: make([]Category, 0, len(DataCategories)),
		byID:       make(map[string]ResourceRecord),
		categoryOf: make(map[string]CategoryID),
		about:      about,
	}

	for _, id := range DataCategories {
		c, ok := seen[id]
		if !ok {
			return nil, fmt.Errorf("%w: missing category %q", ErrInvalidCatalog, id)
		}

		frozen := c
		frozen.Records = make([]ResourceRecord, 0, len(c.Records))
		for _, r := range c.Records {
			if err := validateRecord(r); err != nil {
				return nil, fmt.Errorf("%w: category %q: %v", ErrInvalidCatalog, id, err)
			}
			if owner, dup := cat.categoryOf[r.ID]; dup {
				return nil, fmt.Errorf("%w: record %q in both %q and %q", ErrInvalidCatalog, r.ID, owner, id)
			}
			rec := r.clone()
			frozen.Records = append(frozen.Records, rec)
			cat.byID[rec.ID] = rec
			cat.categoryOf[rec.ID] = id
		}
		cat.categories = append(cat.categories, frozen)
	}

	return cat, nil
}

func validateRecord(r ResourceRecord) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("record without id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("record %q has no title", r.ID)
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("record %q has no url", r.ID)
	}
	if !r.Access.Valid() {
		return fmt.Errorf("record %q has unknown access level %q", r.ID, r.Access)
	}
	return nil
}

// Categories returns the categories without their records, in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for _, cat := range c.categories {
		cat.Records = nil
		out = append(out, cat)
	}
	return out
}

// Category returns the category header (without records).
func (c *Catalog) Category(id CategoryID) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			cat.Records = nil
			return cat, true
		}
	}
	return Category{}, false
}

// Records returns a copy of the records of one category, in catalog order.
// Unknown categories and the about view yield an empty slice.
func (c *Catalog) Records(id CategoryID) []ResourceRecord {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cloneRecords(cat.Records)
		}
	}
	return []ResourceRecord{}
}

// All returns every record across categories, in catalog order.
func (c *Catalog) All() []ResourceRecord {
	out := make([]ResourceRecord, 0, len(c.byID))
	for _, cat := range c.categories {
		for _, r := range cat.Records {
			out = append(out, r.clone())
		}
	}
	return out
}

// Record looks a record up by ID.
func (c *Catalog) Record(id string) (ResourceRecord, bool) {
	r, ok := c.byID[id]
	if !ok {
		return ResourceRecord{}, false
	}
	return r.clone(), true
}

// CategoryOf returns the category owning the record.
func (c *Catalog) CategoryOf(id string) (CategoryID, bool) {
	cat, ok := c.categoryOf[id]
	return cat, ok
}

// Has reports whether a record with this ID exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Count returns the total number of records.
func (c *Catalog) Count() int {
	return len(c.byID)
}

// About returns the design documentation view.
func (c *Catalog) About() About {
	out := c.about
	out.Names = append([]NameOption(nil), c.about.Names...)
	return out
}

func cloneRecords(in []ResourceRecord) []ResourceRecord {
	out := make([]ResourceRecord, 0, len(in))
	for _, r := range in {
		out = append(out, r.clone())
	}
	return out
}
