package chat

import (
	"context"
	"errors"
	"time"

	"github.com/campusmind/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRole     = errors.New("invalid turn role")
)

// Store owns the conversation logs. Implementations must keep each session's
// turns in append order and be safe for concurrent use.
type Store interface {
	// CreateSession provisions an empty session under a fresh identifier.
	CreateSession(ctx context.Context) (chat.Session, error)
	// Append adds a turn to the end of the session log.
	Append(ctx context.Context, sessionID string, role chat.Role, text string) error
	// RecentHistory returns the last window turns in order; window <= 0 returns all.
	RecentHistory(ctx context.Context, sessionID string, window int) ([]chat.Turn, error)
	// Exists reports whether sessionID is live.
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// StoreConfig controls session lifetime.
type StoreConfig struct {
	// TTL expires sessions idle for longer than this. Zero keeps them forever.
	TTL time.Duration
	// MaxSessions caps live sessions; the least recently active one is
	// evicted to make room. Zero means unbounded.
	MaxSessions int
}

func tail(turns []chat.Turn, window int) []chat.Turn {
	start := 0
	if window > 0 && len(turns) > window {
		start = len(turns) - window
	}
	copied := make([]chat.Turn, len(turns)-start)
	copy(copied, turns[start:])
	return copied
}
