package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keySession  = "session:"
	keyDenylist = "denylist:"

	// 与登出时写入的值保持一致
	denylistValue = "access_token"
)

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SetSession(ctx context.Context, username, refreshToken string, ttl time.Duration) error {
	if username == "" || refreshToken == "" {
		return errors.New("session: missing username or token")
	}
	if ttl <= 0 {
		return errors.New("session: ttl must be positive")
	}
	return s.client.Set(ctx, keySession+username, refreshToken, ttl).Err()
}

func (s *RedisStore) GetSession(ctx context.Context, username string) (string, error) {
	val, err := s.client.Get(ctx, keySession+username).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: get: %w", err)
	}
	return val, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, username string) error {
	return s.client.Del(ctx, keySession+username).Err()
}

func (s *RedisStore) Deny(ctx context.Context, accessToken string, ttl time.Duration) error {
	return s.client.Set(ctx, denyKey(accessToken), denylistValue, ttl).Err()
}

func (s *RedisStore) IsDenied(ctx context.Context, accessToken string) (bool, error) {
	n, err := s.client.Exists(ctx, denyKey(accessToken)).Result()
	if err != nil {
		return false, fmt.Errorf("session: denylist lookup: %w", err)
	}
	return n > 0, nil
}

// denyKey 用 token 摘要做 key，避免把完整 JWT 写进 redis key
func denyKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyDenylist + hex.EncodeToString(sum[:])
}
