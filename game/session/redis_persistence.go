package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/wricardo/mcp-training/mazerunner/game/service"
)

const (
	// DefaultRedisPrefix namespaces session keys
	DefaultRedisPrefix = "mazerunner:session:"

	redisOpTimeout = 5 * time.Second
	redisLockTTL   = 10 * time.Second
)

// RedisPersistence implements SessionPersistence on top of Redis so several
// server instances can share one store. Each write holds a per-session
// redsync mutex across reading the stored revision, encoding and storing, so
// a stale copy never replaces a newer one.
type RedisPersistence struct {
	client        *redis.Client
	locker        *redsync.Redsync
	prefix        string
	ttl           time.Duration
	configManager service.ConfigManager
}

// NewRedisPersistence creates a Redis backed store. A zero ttl keeps sessions forever.
func NewRedisPersistence(client *redis.Client, ttl time.Duration, configManager service.ConfigManager) *RedisPersistence {
	pool := goredis.NewPool(client)
	return &RedisPersistence{
		client:        client,
		locker:        redsync.New(pool),
		prefix:        DefaultRedisPrefix,
		ttl:           ttl,
		configManager: configManager,
	}
}

// Ping checks that the server is reachable
func (rp *RedisPersistence) Ping(ctx context.Context) error {
	return rp.client.Ping(ctx).Err()
}

// Save persists a session under its key. It fails with ErrStaleSession when
// the stored copy has a higher revision.
func (rp *RedisPersistence) Save(session *service.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return rp.withLock(ctx, session.ID, func() error {
		stored, err := rp.client.Get(ctx, rp.key(session.ID)).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to read session: %w", err)
		default:
			if err := checkRevision(stored, session.ID, session.Revision); err != nil {
				return err
			}
		}

		jsonData, err := encodeSession(session, rp.configManager)
		if err != nil {
			return err
		}
		if err := rp.client.Set(ctx, rp.key(session.ID), jsonData, rp.ttl).Err(); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		return nil
	})
}

// Load retrieves a session by ID
func (rp *RedisPersistence) Load(id string) (*service.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	jsonData, err := rp.client.Get(ctx, rp.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	return decodeSession(jsonData, rp.configManager)
}

// Delete removes a session key
func (rp *RedisPersistence) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return rp.withLock(ctx, id, func() error {
		removed, err := rp.client.Del(ctx, rp.key(id)).Result()
		if err != nil {
			return fmt.Errorf("failed to remove session: %w", err)
		}
		if removed == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
}

// ListAll returns all persisted session IDs
func (rp *RedisPersistence) ListAll() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var ids []string
	iter := rp.client.Scan(ctx, 0, rp.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasSuffix(key, ":lock") {
			continue
		}
		ids = append(ids, strings.TrimPrefix(key, rp.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}

	return ids, nil
}

// Exists checks if a session key exists
func (rp *RedisPersistence) Exists(id string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := rp.client.Exists(ctx, rp.key(id)).Result()
	return err == nil && n > 0
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + id
}

func (rp *RedisPersistence) withLock(ctx context.Context, id string, fn func() error) error {
	mutex := rp.locker.NewMutex(rp.key(id)+":lock", redsync.WithExpiry(redisLockTTL))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("failed to lock session %s: %w", id, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	return fn()
}
