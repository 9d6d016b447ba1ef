package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revokedKeyPrefix = "session:revoked:"

// RevocationStore records logged-out session token IDs until their natural
// expiry, so a cleared cookie cannot be replayed.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) bool
}

type redisRevocationStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRevocationStore builds a Redis-backed store. A nil client yields a store
// that never revokes.
func NewRevocationStore(client *redis.Client, logger *zap.Logger) RevocationStore {
	return &redisRevocationStore{client: client, logger: logger}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, until time.Time) error {
	if s.client == nil {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) bool {
	if s.client == nil {
		return false
	}
	n, err := s.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		// Fail open: an unreachable Redis must not lock everyone out.
		s.logger.Warn("revocation lookup failed", zap.Error(err))
		return false
	}
	return n > 0
}
