package index

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
)

// SessionIndex keeps the live assistant sessions in memory.
// Sessions are never persisted: losing the index is a page reload.
type SessionIndex struct {
	mu       sync.RWMutex
	sessions map[string]*assistant.Session // ID -> Session
	order    map[string]uint64             // ID -> insertion sequence
	next     uint64
	newID    func() string
}

// NewSessionIndex creates an empty index issuing random UUIDs.
func NewSessionIndex() *SessionIndex {
	return &SessionIndex{
		sessions: make(map[string]*assistant.Session),
		order:    make(map[string]uint64),
		newID:    func() string { return uuid.NewString() },
	}
}

// Add registers a session and returns its new ID
func (idx *SessionIndex) Add(s *assistant.Session) string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id := idx.newID()
	for _, taken := idx.sessions[id]; taken; _, taken = idx.sessions[id] {
		id = idx.newID()
	}
	idx.sessions[id] = s
	idx.next++
	idx.order[id] = idx.next
	return id
}

// Get retrieves a session by ID
func (idx *SessionIndex) Get(id string) (*assistant.Session, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s, ok := idx.sessions[id]
	return s, ok
}

// Delete removes a session
func (idx *SessionIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.sessions, id)
	delete(idx.order, id)
}

// IDs returns every session ID, oldest first
func (idx *SessionIndex) IDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids := make([]string, 0, len(idx.sessions))
	for id := range idx.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return idx.order[ids[i]] < idx.order[ids[j]]
	})
	return ids
}

// Count returns the number of live sessions
func (idx *SessionIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.sessions)
}
