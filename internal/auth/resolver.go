package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/repository"
)

// PrincipalResolver maps a verified subject id to a concrete principal
// record. The backing store is selected by the caller's context, never by
// token content, and every call is a fresh lookup.
type PrincipalResolver struct {
	users  repository.PrincipalStore
	admins repository.PrincipalStore
}

// NewPrincipalResolver wires the two backing stores.
func NewPrincipalResolver(users, admins repository.PrincipalStore) *PrincipalResolver {
	return &PrincipalResolver{users: users, admins: admins}
}

// Store returns the backing store for a context.
func (r *PrincipalResolver) Store(store domain.StoreContext) repository.PrincipalStore {
	if store == domain.StoreContextAdmin {
		return r.admins
	}
	return r.users
}

// Resolve fetches the principal record for the given store context and id.
func (r *PrincipalResolver) Resolve(ctx context.Context, store domain.StoreContext, id int64) (*domain.Principal, error) {
	principal, err := r.Store(store).GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return principal, nil
}
