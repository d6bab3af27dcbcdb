package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/session"
)

func newTestTokenService(t *testing.T) (*TokenService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	codec := newTestCodec(t, "auth-service", "api")
	ledger := session.NewRedisLedger(client)
	return NewTokenService(codec, ledger, 15*time.Minute, 7*24*time.Hour), mr
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.CreateAccessToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, token, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
}

func TestIssueAndVerifyRefreshToken(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.CreateRefreshToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, token, domain.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, claims.TokenType)
}

func TestVerifyRejectsWrongExpectedType(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	refresh, err := svc.CreateRefreshToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)
	access, err := svc.CreateAccessToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, refresh, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
	_, err = svc.Verify(ctx, access, domain.TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestRevokeAllInvalidatesOutstandingTokens(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	access, err := svc.CreateAccessToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)
	refresh, err := svc.CreateRefreshToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)
	other, err := svc.CreateAccessToken(ctx, 7, domain.RoleUser)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, access, domain.TokenTypeAccess)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, 42))

	_, err = svc.Verify(ctx, access, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	_, err = svc.Verify(ctx, refresh, domain.TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	// other principals keep their sessions
	claims, err := svc.Verify(ctx, other, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
}

func TestVerifyAfterLedgerExpiry(t *testing.T) {
	svc, mr := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.CreateAccessToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)

	// The ledger entry lapses while the signature itself is still within
	// its validity window.
	mr.FastForward(16 * time.Minute)

	_, err = svc.Verify(ctx, token, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestExpiredSignatureWinsOverLiveLedgerEntry(t *testing.T) {
	svc, _ := newTestTokenService(t)
	ctx := context.Background()

	token, claims, err := svc.codec.Encode(42, domain.RoleUser, domain.TokenTypeAccess, -time.Second)
	require.NoError(t, err)
	require.NoError(t, svc.ledger.Put(ctx, domain.TokenTypeAccess, claims.ID, claims.Subject, time.Hour))

	_, err = svc.Verify(ctx, token, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestIssuanceAbortsWhenLedgerUnavailable(t *testing.T) {
	svc, mr := newTestTokenService(t)
	mr.Close()

	_, err := svc.CreateAccessToken(context.Background(), 42, domain.RoleUser)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestVerifySurfacesLedgerOutage(t *testing.T) {
	svc, mr := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.CreateAccessToken(ctx, 42, domain.RoleUser)
	require.NoError(t, err)

	mr.Close()

	_, err = svc.Verify(ctx, token, domain.TokenTypeAccess)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
