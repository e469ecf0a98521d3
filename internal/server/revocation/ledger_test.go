package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewLedger(rdb), mini
}

func TestLedger_RevokeAndCheck(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	revoked, err := ledger.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, ledger.Revoke(ctx, "token-a", time.Hour))

	revoked, err = ledger.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Other tokens are unaffected.
	revoked, err = ledger.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLedger_RevokeIdempotent(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "token-a", time.Hour))
	require.NoError(t, ledger.Revoke(ctx, "token-a", time.Hour))

	revoked, err := ledger.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLedger_EntryExpires(t *testing.T) {
	ledger, mini := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "token-a", time.Minute))

	mini.FastForward(2 * time.Minute)

	revoked, err := ledger.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestLedger_NonPositiveTTLClamped(t *testing.T) {
	ledger, mini := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "stale", -time.Second))

	revoked, err := ledger.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, revoked)

	mini.FastForward(2 * time.Minute)

	revoked, err = ledger.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}
