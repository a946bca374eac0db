package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linlv/internal/index"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

const (
	// DefaultSessionTTL is how long an untouched session survives
	DefaultSessionTTL = 2 * time.Hour
	// DefaultSweepInterval is how often idle sessions are looked for
	DefaultSweepInterval = 10 * time.Minute
)

// SessionReaper drops assistant sessions that have been idle too long.
// A session awaiting a reply is never reaped.
type SessionReaper struct {
	index    *index.SessionIndex
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionReaper creates a reaper; zero durations take the defaults
func NewSessionReaper(
	idx *index.SessionIndex,
	log logger.Logger,
	interval time.Duration,
	ttl time.Duration,
) *SessionReaper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionReaper{
		index:    idx,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic sweeping until Stop or ctx cancellation
func (r *SessionReaper) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reaper. Safe to call more than once.
func (r *SessionReaper) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// Sweep removes idle sessions and returns how many were dropped
func (r *SessionReaper) Sweep() int {
	now := r.now()
	reaped := 0

	for _, id := range r.index.IDs() {
		s, ok := r.index.Get(id)
		if !ok {
			continue
		}
		idle, retired := s.Retire(now, r.ttl)
		if !retired {
			continue
		}

		r.index.Delete(id)
		r.logger.Debug("reaped idle assistant session",
			logger.String("session_id", id),
			logger.Duration("idle", idle))
		reaped++
	}

	if reaped > 0 {
		r.logger.Info("session sweep completed",
			logger.Int("reaped", reaped),
			logger.Int("remaining", r.index.Count()))
	} else {
		r.logger.Debug("no idle sessions to reap")
	}
	return reaped
}
