// Package revocation records access tokens that were revoked before their
// expiry, keyed by jti. Entries only need to live until the token would
// have expired anyway.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local revocation list. Entries past their expiry are
// ignored on lookup and removed by Sweep.
type Memory struct {
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		now:     func() time.Time { return time.Now().UTC() },
		entries: map[string]time.Time{},
	}
}

func (m *Memory) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = until
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.entries[jti]
	return ok && m.now().Before(until), nil
}

// Sweep drops entries that expired before now and returns how many.
func (m *Memory) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for jti, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, jti)
			n++
		}
	}
	return n
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
