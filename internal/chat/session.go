package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/lapbot/internal/render"
)

// Session is one client's append-only transcript. Entries are only removed by Reset.
type Session struct {
	id       string
	mu       sync.Mutex
	entries  []string
	lastSeen time.Time
}

// NewSession returns an empty session with the given id.
func NewSession(id string) *Session {
	return &Session{id: id, lastSeen: time.Now()}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Len returns the number of transcript entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the transcript entries.
func (s *Session) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.entries...)
}

func (s *Session) append(entry string) {
	s.entries = append(s.entries, entry)
	s.touch()
}

func (s *Session) touch() {
	s.lastSeen = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) renderLocked() Rendered {
	return Rendered{
		HTML:     render.Transcript(s.entries),
		Entries:  len(s.entries),
		ScrollTo: render.ScrollAnchor,
	}
}

// Registry holds sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create adds a session with a fresh random id.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString())
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrCreate returns the session with id, or a new session when id is unknown or empty.
func (r *Registry) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := r.Get(id); ok {
			return s, false
		}
	}
	return r.Create(), true
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops sessions idle for longer than maxIdle and returns how many were dropped.
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
