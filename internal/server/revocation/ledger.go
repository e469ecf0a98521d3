// Package revocation implements the refresh-token revocation ledger on
// Redis. Entries carry a TTL equal to the token's remaining lifetime, so
// the ledger cleans itself up; access tokens are never tracked here.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blacklist:"

// Ledger marks refresh tokens as revoked until their natural expiry.
type Ledger struct {
	rdb *redis.Client
}

func NewLedger(rdb *redis.Client) *Ledger {
	return &Ledger{rdb: rdb}
}

// Revoke stores the raw token with the given TTL. Re-revoking an already
// revoked token just refreshes the entry; callers treat it as a no-op.
// Non-positive TTLs are clamped to a minute so the write is still valid.
func (l *Ledger) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}

	if err := l.rdb.Set(ctx, keyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation set: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token has a live ledger entry.
func (l *Ledger) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := l.rdb.Get(ctx, keyPrefix+token).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("revocation get: %w", err)
	}

	return true, nil
}

// Ping verifies the ledger connection, for health checks.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
