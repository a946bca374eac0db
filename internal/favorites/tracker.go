// Package favorites persists the user's favorite record IDs in a KV slot.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/logger"
	"github.com/MrSnakeDoc/linlv/internal/store"
)

// StorageKey is the single KV slot holding the favorites JSON array.
const StorageKey = "linlv_favorites"

// Tracker loads and saves the favorite set.
// Writes are last-write-wins; the tracker serializes its own toggles.
type Tracker struct {
	kv     store.KV
	logger logger.Logger

	mu      sync.Mutex
	current domain.FavoriteSet
}

// NewTracker builds a tracker over kv. Call Load before Current.
func NewTracker(kv store.KV, log logger.Logger) *Tracker {
	return &Tracker{
		kv:      kv,
		logger:  log,
		current: domain.NewFavoriteSet(),
	}
}

// Load reads the persisted set. A missing key, a store failure or a value
// that is not a JSON array of strings all yield the empty set.
func (t *Tracker) Load(ctx context.Context) domain.FavoriteSet {
	set := t.read(ctx)

	t.mu.Lock()
	t.current = set
	t.mu.Unlock()

	return set
}

func (t *Tracker) read(ctx context.Context) domain.FavoriteSet {
	raw, found, err := t.kv.Get(ctx, StorageKey)
	if err != nil {
		t.logger.Warn("failed to read favorites, starting empty", logger.Error(err))
		return domain.NewFavoriteSet()
	}
	if !found {
		return domain.NewFavoriteSet()
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		t.logger.Warn("stored favorites are malformed, starting empty",
			logger.Error(err),
			logger.Int("bytes", len(raw)))
		return domain.NewFavoriteSet()
	}
	return domain.NewFavoriteSet(ids...)
}

// Toggle flips id in set and persists the result. The returned set reflects
// the flip even when the write fails; the error reports the failed write.
func (t *Tracker) Toggle(ctx context.Context, set domain.FavoriteSet, id string) (domain.FavoriteSet, error) {
	next := set.Toggle(id)
	return next, t.save(ctx, next)
}

// Current returns the tracker's in-memory set.
func (t *Tracker) Current() domain.FavoriteSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// ToggleCurrent flips id in the tracker's own set and persists it.
func (t *Tracker) ToggleCurrent(ctx context.Context, id string) (domain.FavoriteSet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.Toggle(ctx, t.current, id)
	t.current = next
	if err != nil {
		t.logger.Error("failed to persist favorites",
			logger.String("id", id),
			logger.Error(err))
	}
	return next, err
}

func (t *Tracker) save(ctx context.Context, set domain.FavoriteSet) error {
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := t.kv.Set(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}
