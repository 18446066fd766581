package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisSessionStore keeps sessions in Redis with a native TTL, so several app instances can share them.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps an existing client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisSessionStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	id := newSessionID()
	if err := s.client.Set(ctx, sessionKey(id), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set session: %w", err)
	}
	return id, nil
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get session: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A value we did not write; treat the session as gone.
		return 0, ErrSessionNotFound
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
