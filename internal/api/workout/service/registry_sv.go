package workoutService

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type RegistryOption func(*Registry)

// WithMaxFrames caps the frame history each session retains. Zero keeps
// every frame.
func WithMaxFrames(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxFrames = n
		}
	}
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func WithIDGenerator(newID func() string) RegistryOption {
	return func(r *Registry) {
		if newID != nil {
			r.newID = newID
		}
	}
}

// Registry holds the live sessions of one server.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxFrames int
	now       func() time.Time
	newID     func() string
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the session stored under id, creating it when absent.
// An empty id gets a freshly generated one. Concurrent callers asking for the
// same id always receive the same session.
func (r *Registry) GetOrCreate(id, exerciseType string) (*Session, bool) {
	if id == "" {
		id = r.newID()
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, false
	}
	s = newSession(id, exerciseType, r.maxFrames, r.now)
	r.sessions[id] = s
	return s, true
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Range calls fn for every session until fn returns false. The registry is
// not locked while fn runs, so fn may call back into it.
func (r *Registry) Range(fn func(s *Session) bool) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		if !fn(s) {
			return
		}
	}
}

// Delete removes s if it is still the session stored under its id.
func (r *Registry) Delete(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.sessions[s.id]; ok && cur == s {
		delete(r.sessions, s.id)
		return true
	}
	return false
}

func (r *Registry) Now() time.Time {
	return r.now()
}
