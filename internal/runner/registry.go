package runner

import (
	"sync"
	"time"

	"github.com/gokatarajesh/learnhub/internal/quiz"
)

// hosted is one live session and the bookkeeping around it. mu serializes every
// operation on the session.
type hosted struct {
	mu sync.Mutex

	id         string
	owner      string
	session    *quiz.Session
	lastActive time.Time

	// attempt counts completions; background results for an older attempt are ignored.
	attempt    int
	completion *quiz.Completion
	attemptID  string
	submission SubmissionStatus
}

// registry holds live sessions keyed by id.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*hosted
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*hosted)}
}

func (r *registry) add(h *hosted) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[h.id] = h
	return len(r.sessions)
}

// get returns the session only when owner matches.
func (r *registry) get(id, owner string) (*hosted, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[id]
	if !ok || h.owner != owner {
		return nil, false
	}
	return h, true
}

func (r *registry) remove(id, owner string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[id]
	if !ok || h.owner != owner {
		return len(r.sessions), false
	}
	delete(r.sessions, id)
	return len(r.sessions), true
}

// removeIdle drops sessions whose last activity is before cutoff.
func (r *registry) removeIdle(cutoff time.Time) (removed, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.sessions {
		h.mu.Lock()
		idle := h.lastActive.Before(cutoff)
		h.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, len(r.sessions)
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
