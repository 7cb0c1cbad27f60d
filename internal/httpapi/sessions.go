package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhub/internal/quiz"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu       sync.Mutex
	engine   *quiz.Engine
	lastSeen time.Time
}

// Registry holds one engine per session. An entry is used by one request
// at a time; idle entries expire after ttl.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
	newEngine func() *quiz.Engine
}

func NewRegistry(ttl time.Duration, newEngine func() *quiz.Engine) *Registry {
	return &Registry{
		sessions:  make(map[string]*sessionEntry),
		ttl:       ttl,
		now:       time.Now,
		newEngine: newEngine,
	}
}

// Create registers a fresh engine and returns its session id.
func (r *Registry) Create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	id := uuid.NewString()
	r.sessions[id] = &sessionEntry{
		engine:   r.newEngine(),
		lastSeen: r.now(),
	}
	return id
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(*quiz.Engine) error) error {
	r.mu.Lock()
	r.sweepLocked()
	entry, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	err := fn(entry.engine)

	r.mu.Lock()
	entry.lastSeen = r.now()
	r.mu.Unlock()
	return err
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
