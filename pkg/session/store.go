package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/driftgrid/pkg/observability"
)

// Store holds live sessions in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// NewStore returns an empty store. Sessions idle longer than ttl expire;
// ttl <= 0 disables expiry. limit <= 0 means no session limit.
func NewStore(ttl time.Duration, limit int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      limit,
		now:      time.Now,
	}
}

// TTL returns the idle timeout.
func (s *Store) TTL() time.Duration { return s.ttl }

// Len returns the number of stored sessions, expired ones included until
// the next cleanup.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Add stores sess. When the store is full, expired sessions are removed
// first; ErrFull is returned if that frees nothing.
func (s *Store) Add(ctx context.Context, sess *Session) error {
	sess.Touch(s.now())

	s.mu.Lock()
	if s.max > 0 && len(s.sessions) >= s.max {
		s.mu.Unlock()
		s.Cleanup(ctx)
		s.mu.Lock()
	}
	defer s.mu.Unlock()
	if s.max > 0 && len(s.sessions) >= s.max {
		return fmt.Errorf("%w (%d)", ErrFull, s.max)
	}
	s.sessions[sess.ID] = sess
	observability.Server().OnSessionCreated(ctx, sess.ID)
	return nil
}

// Get returns the session and marks it active. An expired session is
// removed and reported as ErrExpired.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := s.now()
	if sess.IsExpired(now, s.ttl) {
		s.remove(ctx, id, true)
		return nil, ErrExpired
	}
	sess.Touch(now)
	return sess, nil
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(ctx context.Context, id string) bool {
	return s.remove(ctx, id, false)
}

// Cleanup removes every expired session and returns how many it removed.
func (s *Store) Cleanup(ctx context.Context) int {
	now := s.now()
	var expired []string
	s.mu.RLock()
	for id, sess := range s.sessions {
		if sess.IsExpired(now, s.ttl) {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	n := 0
	for _, id := range expired {
		if s.remove(ctx, id, true) {
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(ctx)
		}
	}
}

func (s *Store) remove(ctx context.Context, id string, expired bool) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		observability.Server().OnSessionClosed(ctx, id, expired)
	}
	return ok
}
