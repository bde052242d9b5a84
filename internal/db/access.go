package db

import (
	"time"

	"blagbl/internal/blag"
)

// Index returns the current index, or nil before the first load.
// The returned index is never mutated; a reload swaps in a new one.
func (m *Manager) Index() *blag.Index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// Ready reports whether an index has been loaded.
func (m *Manager) Ready() bool {
	return m.Index() != nil
}

// Path returns the archive the current index was loaded from.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// LoadedAt returns when the current index was loaded.
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

// OnReload registers fn to run after every successful load.
func (m *Manager) OnReload(fn func(*blag.Index)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, fn)
}
