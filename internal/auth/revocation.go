package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenBlacklistKeyPrefix = "auth:access:blacklist:"

// RevocationStore remembers logged-out token ids until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocationStore keeps the blacklist in Redis with per-key TTL.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, accessTokenBlacklistKeyPrefix+tokenID, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %q: %w", tokenID, err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, accessTokenBlacklistKeyPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("lookup revoked token %q: %w", tokenID, err)
	}
}
