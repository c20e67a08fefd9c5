package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusmind/backend/internal/model/chat"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const redisKeyPrefix = "mindy:session:"

// appendScript pushes a turn only when the session record still exists and
// refreshes the idle TTL of both keys in the same step.
var appendScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[1])
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call("PEXPIRE", KEYS[1], ttl)
	redis.call("PEXPIRE", KEYS[2], ttl)
end
return 1
`)

// RedisStore keeps sessions in Redis so several API replicas can share them.
// Expiry is left to Redis key TTLs; MaxSessions is not enforced here.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, cfg StoreConfig) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

func (r *RedisStore) sessionKey(id string) string {
	return redisKeyPrefix + id
}

func (r *RedisStore) turnsKey(id string) string {
	return redisKeyPrefix + id + ":turns"
}

// CreateSession stores a new session record under a fresh identifier.
func (r *RedisStore) CreateSession(ctx context.Context) (chat.Session, error) {
	for {
		session := chat.Session{ID: uuid.NewString(), CreatedAt: r.now().UTC()}
		data, err := json.Marshal(session)
		if err != nil {
			return chat.Session{}, fmt.Errorf("marshal session: %w", err)
		}

		created, err := r.client.SetNX(ctx, r.sessionKey(session.ID), data, r.ttl).Result()
		if err != nil {
			return chat.Session{}, fmt.Errorf("save session: %w", err)
		}
		if created {
			return session, nil
		}
	}
}

// Append adds a turn to the session list.
func (r *RedisStore) Append(ctx context.Context, sessionID string, role chat.Role, text string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	data, err := json.Marshal(chat.Turn{Role: role, Text: text, CreatedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	keys := []string{r.sessionKey(sessionID), r.turnsKey(sessionID)}
	appended, err := appendScript.Run(ctx, r.client, keys, data, r.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	if appended == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// RecentHistory reads the last window turns with a single LRANGE.
func (r *RedisStore) RecentHistory(ctx context.Context, sessionID string, window int) ([]chat.Turn, error) {
	ok, err := r.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionNotFound
	}

	start := int64(0)
	if window > 0 {
		start = -int64(window)
	}

	raw, err := r.client.LRange(ctx, r.turnsKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}

	turns := make([]chat.Turn, 0, len(raw))
	for _, item := range raw {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Exists reports whether the session record is present.
func (r *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
