package chat

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campusmind/backend/internal/model/chat"
	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. The map lock only guards
// lookups and lifecycle changes; each session has its own lock for its turn
// log, so appends to different sessions never wait on each other.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	cfg      StoreConfig
	now      func() time.Time
}

type entry struct {
	mu       sync.Mutex
	session  chat.Session
	turns    []chat.Turn
	removed  bool
	lastSeen atomic.Int64
}

func (e *entry) touch(t time.Time) {
	e.lastSeen.Store(t.UnixNano())
}

// NewMemoryStore bootstraps an in-memory store with the given lifecycle policy.
func NewMemoryStore(cfg StoreConfig) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateSession provisions an anonymous session, evicting the least recently
// active one when the store is full.
func (s *MemoryStore) CreateSession(_ context.Context) (chat.Session, error) {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.sweepLocked(now)
		for len(s.sessions) >= s.cfg.MaxSessions {
			s.evictOldestLocked()
		}
	}

	id := uuid.NewString()
	for {
		if _, taken := s.sessions[id]; !taken {
			break
		}
		id = uuid.NewString()
	}

	e := &entry{
		session: chat.Session{ID: id, CreatedAt: now},
		turns:   make([]chat.Turn, 0, 16),
	}
	e.touch(now)
	s.sessions[id] = e

	return e.session, nil
}

// Append adds a turn to the session history.
func (s *MemoryStore) Append(_ context.Context, sessionID string, role chat.Role, text string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	now := s.now().UTC()
	e, ok := s.lookup(sessionID, now)
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return ErrSessionNotFound
	}

	e.turns = append(e.turns, chat.Turn{Role: role, Text: text, CreatedAt: now})
	e.touch(now)
	return nil
}

// RecentHistory returns a copy of the last window turns.
func (s *MemoryStore) RecentHistory(_ context.Context, sessionID string, window int) ([]chat.Turn, error) {
	e, ok := s.lookup(sessionID, s.now().UTC())
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, ErrSessionNotFound
	}
	return tail(e.turns, window), nil
}

// Exists reports whether the session is live.
func (s *MemoryStore) Exists(_ context.Context, sessionID string) (bool, error) {
	_, ok := s.lookup(sessionID, s.now().UTC())
	return ok, nil
}

// Len returns the number of sessions currently held, expired ones included
// until the next sweep.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(now)
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	if s.cfg.TTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("[chat] swept %d expired sessions, %d live", n, s.Len())
			}
		}
	}
}

func (s *MemoryStore) lookup(sessionID string, now time.Time) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || s.expired(e, now) {
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	if s.cfg.TTL <= 0 {
		return false
	}
	return now.Sub(time.Unix(0, e.lastSeen.Load())) > s.cfg.TTL
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			s.removeLocked(id, e)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   *entry
	)
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Load() < oldest.lastSeen.Load() {
			oldestID, oldest = id, e
		}
	}
	if oldest != nil {
		s.removeLocked(oldestID, oldest)
	}
}

// removeLocked must be called with s.mu held. Lock order is always the map
// lock first, then the session lock.
func (s *MemoryStore) removeLocked(id string, e *entry) {
	delete(s.sessions, id)
	e.mu.Lock()
	e.removed = true
	e.turns = nil
	e.mu.Unlock()
}
