package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokens is the logout denylist backed by Redis.
// Key format: revoked:<token_id>; each key expires when the token itself
// would have expired, keeping the set self-cleaning.
type RevokedTokens struct {
	client *redis.Client
}

// NewRevokedTokens creates a RevokedTokens store wrapping the given client.
func NewRevokedTokens(client *redis.Client) *RevokedTokens {
	return &RevokedTokens{client: client}
}

// Revoke denylists the token id for the remaining token lifetime.
func (s *RevokedTokens) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been denylisted.
func (s *RevokedTokens) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevokedTokens) key(tokenID string) string {
	return "revoked:" + tokenID
}
