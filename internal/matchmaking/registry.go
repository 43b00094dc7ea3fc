package matchmaking

import (
	"log"
	"sync"
)

// Registry maps event ids to live sessions. It is the only structure
// touched by every flow (join, leave, timers, disconnect), so all access
// goes through its lock; per-session state is guarded by the session's
// own mutex.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for eventID, creating it lazily on
// first join. Creation is idempotent.
func (r *Registry) GetOrCreate(eventID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[eventID]; ok {
		return s
	}
	s := newSession(eventID)
	r.sessions[eventID] = s
	log.Printf("matchmaking: session created for event %s", eventID)
	return s
}

// Get is a read-only lookup that never creates
func (r *Registry) Get(eventID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[eventID]
	return s, ok
}

// Cleanup removes the session and cancels any outstanding phase timer.
// Callers invoke it once the event is confirmed over.
func (r *Registry) Cleanup(eventID string) {
	r.mu.Lock()
	s, ok := r.sessions[eventID]
	delete(r.sessions, eventID)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	log.Printf("matchmaking: session cleaned up for event %s", eventID)
}

// Len reports the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
