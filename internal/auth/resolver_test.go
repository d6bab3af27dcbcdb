package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusion-kit/auth-service/internal/domain"
	"github.com/fusion-kit/auth-service/internal/repository"
)

type fakePrincipalStore struct {
	byID map[int64]*domain.Principal
	err  error
}

func (f *fakePrincipalStore) GetByID(_ context.Context, id int64) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePrincipalStore) GetByUsername(_ context.Context, username string) (*domain.Principal, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.byID {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePrincipalStore) Create(_ context.Context, p *domain.Principal) error {
	if f.err != nil {
		return f.err
	}
	p.ID = int64(len(f.byID) + 1)
	f.byID[p.ID] = p
	return nil
}

func (f *fakePrincipalStore) Update(_ context.Context, p *domain.Principal) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.byID[p.ID] = p
	return nil
}

func TestResolverSelectsStoreByCallerContext(t *testing.T) {
	// id 7 exists in both stores and refers to unrelated principals
	users := &fakePrincipalStore{byID: map[int64]*domain.Principal{
		7: {ID: 7, Username: "alice", Role: domain.RoleUser, IsActive: true},
	}}
	admins := &fakePrincipalStore{byID: map[int64]*domain.Principal{
		7: {ID: 7, Username: "root", Role: domain.RoleAdmin, IsActive: true},
	}}
	resolver := NewPrincipalResolver(users, admins)
	ctx := context.Background()

	user, err := resolver.Resolve(ctx, domain.StoreContextUser, 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	admin, err := resolver.Resolve(ctx, domain.StoreContextAdmin, 7)
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)
}

func TestResolverNotFound(t *testing.T) {
	resolver := NewPrincipalResolver(
		&fakePrincipalStore{byID: map[int64]*domain.Principal{}},
		&fakePrincipalStore{byID: map[int64]*domain.Principal{}},
	)

	_, err := resolver.Resolve(context.Background(), domain.StoreContextUser, 99)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestResolverStoreFailure(t *testing.T) {
	resolver := NewPrincipalResolver(
		&fakePrincipalStore{err: errors.New("connection refused")},
		&fakePrincipalStore{byID: map[int64]*domain.Principal{}},
	)

	_, err := resolver.Resolve(context.Background(), domain.StoreContextUser, 1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
