package repository

import (
	"context"
	"errors"

	"github.com/fusion-kit/auth-service/internal/domain"
)

// ErrNotFound is the normal-result signal for missing records; callers
// branch on it rather than treating it as a failure.
var ErrNotFound = errors.New("record not found")

// ErrInvalidID marks identifiers that cannot possibly address a record.
var ErrInvalidID = errors.New("invalid identifier")

// PrincipalStore is the capability set shared by both principal backing
// stores. The user and admin stores implement it independently; there is no
// shared table or cross-store join.
type PrincipalStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Principal, error)
	GetByUsername(ctx context.Context, username string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) error
	Update(ctx context.Context, p *domain.Principal) error
}
