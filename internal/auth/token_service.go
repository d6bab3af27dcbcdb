package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/session"
)

// TokenService owns the token lifecycle: issuance writes a ledger entry
// alongside the signed token, verification requires both a valid signature
// and a live entry, and revocation removes entries without touching keys.
type TokenService struct {
	codec      *Codec
	ledger     session.Ledger
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds the service with explicit dependencies.
func NewTokenService(codec *Codec, ledger session.Ledger, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		codec:      codec,
		ledger:     ledger,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// CreateAccessToken issues a signed access token backed by a ledger entry.
func (s *TokenService) CreateAccessToken(ctx context.Context, principalID int64, role string) (string, error) {
	return s.create(ctx, principalID, role, domain.TokenTypeAccess, s.accessTTL)
}

// CreateRefreshToken issues a signed refresh token backed by a ledger entry.
func (s *TokenService) CreateRefreshToken(ctx context.Context, principalID int64, role string) (string, error) {
	return s.create(ctx, principalID, role, domain.TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) create(ctx context.Context, principalID int64, role string, tokenType domain.TokenType, ttl time.Duration) (string, error) {
	token, claims, err := s.codec.Encode(principalID, role, tokenType, ttl)
	if err != nil {
		return "", err
	}

	// A failed write aborts the whole issuance: without its ledger entry the
	// signed token is considered never issued. Not retried here, since a
	// repeated put could land with a different TTL.
	if err := s.ledger.Put(ctx, tokenType, claims.ID, claims.Subject, ttl); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return token, nil
}

// Verify decodes and validates the token, enforces the expected type tag,
// and then requires a live ledger entry. A leaked-but-revoked token is
// rejected here even while cryptographically well-formed and unexpired.
func (s *TokenService) Verify(ctx context.Context, token string, expected domain.TokenType) (*Claims, error) {
	claims, err := s.codec.DecodeAndVerify(token)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != expected {
		return nil, ErrTokenTypeMismatch
	}

	_, live, err := s.ledger.Get(ctx, expected, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !live {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// RevokeAll invalidates every outstanding access and refresh token for the
// principal. Signatures stay valid until natural expiry; rejection is
// enforced entirely by ledger absence.
func (s *TokenService) RevokeAll(ctx context.Context, principalID int64) error {
	if err := s.ledger.RevokeAllForSubject(ctx, strconv.FormatInt(principalID, 10)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
