package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fusion-kit/auth-service/internal/auth"
	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/events"
	"github.com/fusion-kit/auth-service/internal/repository"
	apperrors "github.com/fusion-kit/auth-service/pkg/util"
)

// TokenPair is returned by login: a short-lived access token and a
// long-lived refresh token, both backed by ledger entries.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService coordinates registration, login and token lifecycle flows for
// both principal stores.
type AuthService struct {
	resolver   *auth.PrincipalResolver
	tokens     *auth.TokenService
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Resolver   *auth.PrincipalResolver
	Tokens     *auth.TokenService
	Dispatcher events.Dispatcher
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		resolver:   deps.Resolver,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

func roleFor(store domain.StoreContext) string {
	if store == domain.StoreContextAdmin {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

// Register creates a principal in the store the caller selected.
func (s *AuthService) Register(ctx context.Context, store domain.StoreContext, username, email, password string) (*domain.Principal, error) {
	principals := s.resolver.Store(store)

	if _, err := principals.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	principal := &domain.Principal{
		Username:       username,
		Email:          email,
		Role:           roleFor(store),
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := principals.Create(ctx, principal); err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}

	s.publish(ctx, events.EventPrincipalRegistered, store, principal.ID, events.PrincipalRegisteredPayload{
		Username: principal.Username,
		Role:     principal.Role,
	})
	return principal, nil
}

// Login authenticates against the selected store and issues a token pair.
func (s *AuthService) Login(ctx context.Context, store domain.StoreContext, username, password string) (*TokenPair, error) {
	principal, err := s.resolver.Store(store).GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrStoreUnavailable, err)
	}

	if err := auth.ComparePassword(principal.HashedPassword, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !principal.IsActive {
		return nil, apperrors.NewUnauthorized("principal inactive")
	}

	access, err := s.tokens.CreateAccessToken(ctx, principal.ID, principal.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.CreateRefreshToken(ctx, principal.ID, principal.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPrincipalLoggedIn, store, principal.ID, events.PrincipalLoggedInPayload{
		Username: principal.Username,
	})
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh verifies a refresh token and issues a fresh access token. The
// principal must still exist and be active in the selected store.
func (s *AuthService) Refresh(ctx context.Context, store domain.StoreContext, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	id, err := claims.PrincipalID()
	if err != nil {
		return "", err
	}

	principal, err := s.resolver.Resolve(ctx, store, id)
	if err != nil {
		return "", err
	}
	if !principal.IsActive {
		return "", apperrors.NewUnauthorized("principal inactive")
	}

	return s.tokens.CreateAccessToken(ctx, principal.ID, principal.Role)
}

// Logout revokes every outstanding session for the principal.
func (s *AuthService) Logout(ctx context.Context, store domain.StoreContext, principalID int64) error {
	if err := s.tokens.RevokeAll(ctx, principalID); err != nil {
		return err
	}
	s.publish(ctx, events.EventSessionsRevoked, store, principalID, events.SessionsRevokedPayload{
		Reason: "logout",
	})
	return nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, store domain.StoreContext, principalID int64, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Store: store, PrincipalID: principalID},
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
