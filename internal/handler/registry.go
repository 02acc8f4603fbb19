package handler

import (
	"sync"

	"github.com/google/uuid"

	"wedding-planner/internal/form"
)

// SessionFactory builds a session for the given ID with all collaborators
// attached.
type SessionFactory func(id string) *form.Session

// Registry keeps the form sessions of all clients in memory. Sessions that
// are not in memory are restored from their persisted progress on demand.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*form.Session
	factory  SessionFactory
}

// NewRegistry creates an empty registry
func NewRegistry(factory SessionFactory) *Registry {
	return &Registry{
		sessions: make(map[string]*form.Session),
		factory:  factory,
	}
}

// Create starts a new session with a fresh ID.
func (r *Registry) Create() *form.Session {
	s := r.factory(uuid.NewString())

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with the given ID, restoring it from saved
// progress when needed.
func (r *Registry) Get(id string) (*form.Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, true
	}

	restored := r.factory(id)
	if !restored.LoadProgress() {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it meanwhile.
	if s, ok := r.sessions[id]; ok {
		return s, true
	}
	r.sessions[id] = restored
	return restored, true
}

// Remove forgets a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of sessions in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
