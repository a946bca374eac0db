package domain

import "strings"

// Filter returns the records visible for the given category and search query.
//
// An empty (or whitespace-only) query lists the active category in catalog
// order. A non-empty query ignores the category and searches every record:
// it matches when the lowercased query is a substring of the title, the
// description or any tag. Matches keep catalog order; there is no ranking
// and no limit.
//
// The result is never nil, so "no match" is an empty slice.
func Filter(catalog *Catalog, active CategoryID, query string) []ResourceRecord {
	if catalog == nil {
		return []ResourceRecord{}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return catalog.Records(active)
	}

	matches := make([]ResourceRecord, 0)
	for _, record := range catalog.All() {
		if Matches(record, q) {
			matches = append(matches, record)
		}
	}
	return matches
}

// Matches reports whether a record matches an already-lowercased query.
func Matches(record ResourceRecord, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(record.Title), lowerQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Description), lowerQuery) {
		return true
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}
