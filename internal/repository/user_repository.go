package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fusion-kit/auth-service/internal/domain"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns the Postgres-backed user store.
func NewUserRepository(pool *pgxpool.Pool) PrincipalStore {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, p *domain.Principal) error {
	const query = `
        INSERT INTO users (username, email, role, hashed_password, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		p.Username,
		p.Email,
		p.Role,
		p.HashedPassword,
		p.IsActive,
	).Scan(&p.ID)
}

func (r *userRepository) Update(ctx context.Context, p *domain.Principal) error {
	const query = `
        UPDATE users SET username=$1, email=$2, role=$3, hashed_password=$4, is_active=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		p.Username,
		p.Email,
		p.Role,
		p.HashedPassword,
		p.IsActive,
		p.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	const query = `
        SELECT id, username, email, role, hashed_password, is_active
        FROM users WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	const query = `
        SELECT id, username, email, role, hashed_password, is_active
        FROM users WHERE username=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) scanOne(row pgx.Row) (*domain.Principal, error) {
	var p domain.Principal
	if err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.Role,
		&p.HashedPassword,
		&p.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
