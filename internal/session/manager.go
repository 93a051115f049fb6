package session

import (
	"sync"
	"time"
)

// DefaultTTL bounds how long an abandoned dialogue lingers. The source
// behavior had no expiry at all; a bounded lifetime is a hardening, not
// an observed behavior, so the exact value is configuration.
const DefaultTTL = 30 * time.Minute

type entry struct {
	session   *Session
	startedAt time.Time
}

// Manager is the keyed store of live edit sessions, one per external id.
// Expiry is applied lazily: an entry older than the TTL is dropped the
// next time it is looked up.
type Manager struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	sessions map[string]entry
}

// NewManager creates a Manager with the given session TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
}

// Start creates a session for the user targeting the record, silently
// discarding any unfinished session for that user (last writer wins).
func (m *Manager) Start(externalID, recordID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ExternalID: externalID,
		RecordID:   recordID,
		Step:       StepAmount,
	}
	m.sessions[externalID] = entry{session: s, startedAt: m.now()}
	return s
}

// Get returns the user's live session, or nil if there is none or it has
// expired. An expired session is removed on the spot.
func (m *Manager) Get(externalID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[externalID]
	if !ok {
		return nil
	}
	if m.now().Sub(e.startedAt) > m.ttl {
		delete(m.sessions, externalID)
		return nil
	}
	return e.session
}

// End discards the user's session. Ending a user with no session is a
// no-op.
func (m *Manager) End(externalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, externalID)
}

// Len reports how many sessions are currently held, expired ones
// included until their next lookup.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
