package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-kit/auth-service/internal/domain"
)

func newTestLedger(t *testing.T) (Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLedger(client), mr
}

func TestLedgerPutGet(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "tok-1", "42", time.Minute))

	subject, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "tok-1")
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, "42", subject)
}

func TestLedgerGetAbsent(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, live, err := ledger.Get(context.Background(), domain.TokenTypeAccess, "missing")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestLedgerNamespacesAreDisjoint(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeRefresh, "tok-1", "42", time.Minute))

	_, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "tok-1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestLedgerDelete(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "tok-1", "42", time.Minute))
	require.NoError(t, ledger.Delete(ctx, domain.TokenTypeAccess, "tok-1"))

	_, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "tok-1")
	require.NoError(t, err)
	assert.False(t, live)

	// deleting again is harmless
	require.NoError(t, ledger.Delete(ctx, domain.TokenTypeAccess, "tok-1"))
}

func TestLedgerEntryExpires(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "tok-1", "42", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "tok-1")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestLedgerLastWriteWins(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "tok-1", "42", time.Minute))
	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "tok-1", "7", time.Minute))

	subject, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "tok-1")
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, "7", subject)
}

func TestLedgerRevokeAllForSubject(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "a-1", "42", time.Minute))
	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "a-2", "42", time.Minute))
	require.NoError(t, ledger.Put(ctx, domain.TokenTypeRefresh, "r-1", "42", time.Hour))
	require.NoError(t, ledger.Put(ctx, domain.TokenTypeAccess, "a-3", "7", time.Minute))

	require.NoError(t, ledger.RevokeAllForSubject(ctx, "42"))

	for _, probe := range []struct {
		tokenType domain.TokenType
		tokenID   string
	}{
		{domain.TokenTypeAccess, "a-1"},
		{domain.TokenTypeAccess, "a-2"},
		{domain.TokenTypeRefresh, "r-1"},
	} {
		_, live, err := ledger.Get(ctx, probe.tokenType, probe.tokenID)
		require.NoError(t, err)
		assert.False(t, live, "entry %s:%s should be revoked", probe.tokenType, probe.tokenID)
	}

	// other subjects survive the sweep
	subject, live, err := ledger.Get(ctx, domain.TokenTypeAccess, "a-3")
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, "7", subject)
}

func TestLedgerUnavailable(t *testing.T) {
	ledger, mr := newTestLedger(t)
	mr.Close()

	err := ledger.Put(context.Background(), domain.TokenTypeAccess, "tok-1", "42", time.Minute)
	assert.Error(t, err)
}
