// Package session tracks per-user session state: open share
// configurations, the last-seen store timestamp, and the refresh gate
// that bounds how often a session probes the store for changes.
package session

import (
	"sync"
	"time"
)

// Session holds the state for one logged-in user.
type Session struct {
	User string

	// shareOpen tracks which menu items have an open share
	// configuration popup. Never persisted.
	shareOpen map[string]bool

	// lastUpdate is the latest created_at this session has seen.
	lastUpdate string

	// lastRefresh is when this session last probed the store.
	lastRefresh time.Time
}

// Manager owns all live sessions. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	interval time.Duration
	now      func() time.Time
}

// NewManager creates a session manager with the given refresh interval.
func NewManager(interval time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		interval: interval,
		now:      time.Now,
	}
}

// Start initializes (or resets) the session for a user at login.
func (m *Manager) Start(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[user] = &Session{
		User:        user,
		shareOpen:   make(map[string]bool),
		lastRefresh: m.now(),
	}
}

// End tears down the session wholesale at logout.
func (m *Manager) End(user string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, user)
}

// OpenShare marks the share configuration for an item as open.
func (m *Manager) OpenShare(user, item string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(user).shareOpen[item] = true
}

// CloseShare clears the share configuration flag for an item. Used both
// by cancel and by a confirmed share creation.
func (m *Manager) CloseShare(user, item string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.get(user).shareOpen, item)
}

// OpenShares returns the items with an open share configuration.
func (m *Manager) OpenShares(user string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.get(user)
	items := make([]string, 0, len(s.shareOpen))
	for item := range s.shareOpen {
		items = append(items, item)
	}
	return items
}

// LastUpdate returns the latest created_at this session has seen.
func (m *Manager) LastUpdate(user string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(user).lastUpdate
}

// ShouldRefresh reports whether the refresh interval has elapsed for this
// session and, if so, resets the gate. The store probe itself is the
// caller's job; a closed gate means the cached last-seen value should be
// served without touching the store.
func (m *Manager) ShouldRefresh(user string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(user)
	now := m.now()
	if now.Sub(s.lastRefresh) <= m.interval {
		return false
	}
	s.lastRefresh = now
	return true
}

// RecordUpdate stores the latest created_at seen by this session and
// reports whether it differs from the previous value.
func (m *Manager) RecordUpdate(user, createdAt string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(user)
	changed := createdAt != s.lastUpdate
	s.lastUpdate = createdAt
	return changed
}

// ResetUpdates clears every session's last-seen timestamp. Called after
// an admin clear-all so the next probe reports fresh state.
func (m *Manager) ResetUpdates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.lastUpdate = ""
	}
}

// get returns the session for a user, creating one if the user logged in
// before the server restarted. Callers must hold m.mu.
func (m *Manager) get(user string) *Session {
	s, ok := m.sessions[user]
	if !ok {
		s = &Session{
			User:        user,
			shareOpen:   make(map[string]bool),
			lastRefresh: m.now().Add(-m.interval - time.Second),
		}
		m.sessions[user] = s
	}
	return s
}
