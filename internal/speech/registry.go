// internal/speech/registry.go
package speech

import (
	"log"
	"sync"
)

// SessionRegistry tracks the live relay sessions of this process, so their
// count can be reported and stragglers can be closed on shutdown.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*RelaySession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*RelaySession)}
}

// Register adds a session. Called right after the connection upgrade.
func (r *SessionRegistry) Register(s *RelaySession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Unregister removes a session. Safe to call for unknown ids.
func (r *SessionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of live sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every registered session and empties the registry. Called
// on shutdown after the HTTP listener drains.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) > 0 {
		log.Printf("[WS STT] closing %d relay sessions", len(r.sessions))
	}
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
}
