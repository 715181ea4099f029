// Package session keeps the server-side table of admin login sessions.
//
// Sessions live only in process memory; a restart logs every admin out.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTTL is the idle horizon after which a session stops resolving.
	DefaultTTL = 24 * time.Hour

	tokenBytes = 32
)

type entry struct {
	userID    uint
	createdAt time.Time
	lastSeen  time.Time
}

// Manager maps opaque tokens to user ids.
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a Manager; a non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// WithClock overrides the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// TTL returns the configured idle horizon.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for userID and returns its token.
func (m *Manager) Create(userID uint) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	now := m.now()
	m.mu.Lock()
	m.sessions[token] = &entry{userID: userID, createdAt: now, lastSeen: now}
	m.mu.Unlock()

	return token, nil
}

// Resolve returns the user id behind token. A hit refreshes the idle timer;
// an expired token is dropped.
func (m *Manager) Resolve(token string) (uint, bool) {
	if token == "" {
		return 0, false
	}

	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[token]
	if !ok {
		return 0, false
	}
	if now.Sub(e.lastSeen) > m.ttl {
		delete(m.sessions, token)
		return 0, false
	}

	e.lastSeen = now
	return e.userID, true
}

// Destroy removes token. Unknown tokens are ignored.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len reports the number of stored sessions, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := m.Sweep()
			if onSweep != nil && removed > 0 {
				onSweep(removed)
			}
		}
	}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
