package hub

import "sync"

// Presence tracks which users are currently connected, mapped to their
// avatar color marker. State lives in memory only and is rebuilt from zero
// on restart.
//
// One entry per user id, last writer wins. When the same identity connects
// twice, the second connection's disconnect removes the shared entry even if
// the first connection is still open; multi-connection semantics are
// deliberately left unresolved rather than guessed at.
type Presence struct {
	mu      sync.RWMutex
	entries map[string]int
}

func NewPresence() *Presence {
	return &Presence{entries: make(map[string]int)}
}

// Set upserts the presence marker for a user.
func (p *Presence) Set(userID string, avatarColor int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[userID] = avatarColor
}

// Remove deletes the entry for a user, if any.
func (p *Presence) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

// Get returns the marker for a user and whether the user is online.
func (p *Presence) Get(userID string) (int, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	marker, ok := p.entries[userID]
	return marker, ok
}

// Snapshot returns a copy of all current entries.
func (p *Presence) Snapshot() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := make(map[string]int, len(p.entries))
	for userID, marker := range p.entries {
		entries[userID] = marker
	}
	return entries
}
