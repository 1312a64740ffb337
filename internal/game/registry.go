package game

import "sync"

// Registry tracks active sessions and serializes work per session key.
// Different rooms never block each other; two moves in the same room are
// always ordered. Key locks are kept for the process lifetime, which is
// fine for the bounded set of chat rooms a bot serves.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Acquire blocks until the caller owns the session key, then returns the
// release func. The lock is held across slow work (validation, opponent
// calls) deliberately: a second command for the same room must observe the
// first one's outcome.
func (r *Registry) Acquire(key string) func() {
	r.mu.Lock()
	lock := r.locks[key]
	if lock == nil {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (r *Registry) Get(key string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[key]
}

func (r *Registry) Put(session *Session) {
	r.mu.Lock()
	r.sessions[session.SessionKey] = session
	r.mu.Unlock()
}

func (r *Registry) Remove(key string) {
	r.mu.Lock()
	delete(r.sessions, key)
	r.mu.Unlock()
}

func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
