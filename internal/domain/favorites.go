package domain

import (
	"sort"
	"strings"
)

// FavoriteSet is a set of resource IDs.
//
// It is a value type: Toggle returns a new set and never mutates the
// receiver, so a caller holding an older set keeps seeing the old contents.
type FavoriteSet struct {
	ids map[string]struct{}
}

// NewFavoriteSet builds a set from ids. Blank ids are dropped and
// duplicates collapse.
func NewFavoriteSet(ids ...string) FavoriteSet {
	s := FavoriteSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FavoriteSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of favorites.
func (s FavoriteSet) Len() int {
	return len(s.ids)
}

// Toggle removes id when present and adds it otherwise.
// Two toggles with the same id net to the original set.
func (s FavoriteSet) Toggle(id string) FavoriteSet {
	next := FavoriteSet{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// IDs returns the members sorted, so serialization is deterministic.
func (s FavoriteSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
