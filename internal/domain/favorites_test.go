package domain

import (
	"slices"
	"testing"
)

func TestFavoriteSetToggleFlips(t *testing.T) {
	empty := NewFavoriteSet()

	once := empty.Toggle("p1")
	if !once.Has("p1") || once.Len() != 1 {
		t.Fatalf("Toggle(p1) on empty = %v, want {p1}", once.IDs())
	}

	twice := once.Toggle("p1")
	if twice.Has("p1") || twice.Len() != 0 {
		t.Fatalf("Toggle(p1) twice = %v, want {}", twice.IDs())
	}
}

func TestFavoriteSetToggleTwiceIsIdentity(t *testing.T) {
	tests := []struct {
		name string
		set  FavoriteSet
		id   string
	}{
		{name: "absent id", set: NewFavoriteSet("a", "b"), id: "c"},
		{name: "present id", set: NewFavoriteSet("a", "b"), id: "a"},
		{name: "empty set", set: NewFavoriteSet(), id: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.Toggle(tt.id).Toggle(tt.id)
			if !slices.Equal(got.IDs(), tt.set.IDs()) {
				t.Errorf("double Toggle(%q) = %v, want %v", tt.id, got.IDs(), tt.set.IDs())
			}
		})
	}
}

func TestFavoriteSetToggleDoesNotMutateReceiver(t *testing.T) {
	before := NewFavoriteSet("a")
	_ = before.Toggle("b")
	_ = before.Toggle("a")

	if before.Len() != 1 || !before.Has("a") {
		t.Errorf("receiver changed to %v", before.IDs())
	}
}

func TestNewFavoriteSetNormalizes(t *testing.T) {
	s := NewFavoriteSet("b", " a ", "", "b", "   ")
	got := s.IDs()
	want := []string{"a", "b"}
	if !equalIDs(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestFavoriteSetZeroValue(t *testing.T) {
	var s FavoriteSet
	if s.Has("x") || s.Len() != 0 {
		t.Error("zero FavoriteSet should be empty")
	}
	if next := s.Toggle("x"); !next.Has("x") {
		t.Error("Toggle on zero FavoriteSet should add")
	}
}
