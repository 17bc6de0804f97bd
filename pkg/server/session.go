package server

import (
	"sync"
	"time"

	"github.com/matst80/slask-storefront/pkg/debounce"
	"github.com/matst80/slask-storefront/pkg/store"
)

type session struct {
	store     *store.FilterStore
	debouncer *debounce.Debouncer
	lastSeen  time.Time
}

// SessionRegistry keeps one FilterStore and search debouncer per visitor
// session. Idle sessions are evicted by a background janitor.
type SessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	storeOpts store.StoreOptions
	window    time.Duration
	idle      time.Duration
	done      chan struct{}
}

func NewSessionRegistry(storeOpts store.StoreOptions, debounceWindow, idle time.Duration) *SessionRegistry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	r := &SessionRegistry{
		sessions:  map[string]*session{},
		storeOpts: storeOpts,
		window:    debounceWindow,
		idle:      idle,
		done:      make(chan struct{}),
	}
	go r.janitor()
	return r
}

// get returns the session for the id, creating it on first use. The
// session's debouncer feeds settled search terms into its own store.
func (r *SessionRegistry) get(sessionId string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionId]
	if !ok {
		filterStore := store.NewFilterStore(r.storeOpts)
		s = &session{
			store: filterStore,
			debouncer: debounce.New(r.window, func(value string) {
				filterStore.SetSearchQuery(value)
			}),
		}
		r.sessions[sessionId] = s
	}
	s.lastSeen = time.Now()
	return s
}

func (r *SessionRegistry) Close() {
	close(r.done)
}

func (r *SessionRegistry) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
		}
		cutoff := time.Now().Add(-r.idle)
		r.mu.Lock()
		for id, s := range r.sessions {
			if s.lastSeen.Before(cutoff) {
				s.debouncer.Stop()
				delete(r.sessions, id)
			}
		}
		r.mu.Unlock()
	}
}
