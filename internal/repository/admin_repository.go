package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fusion-kit/auth-service/internal/domain"
)

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository returns the MySQL-backed admin store. Its id space is
// independent of the user store's.
func NewAdminRepository(db *sql.DB) PrincipalStore {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, p *domain.Principal) error {
	const query = `
        INSERT INTO admins (username, email, role, hashed_password, is_active)
        VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		p.Username,
		p.Email,
		p.Role,
		p.HashedPassword,
		p.IsActive,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *adminRepository) Update(ctx context.Context, p *domain.Principal) error {
	const query = `
        UPDATE admins SET username=?, email=?, role=?, hashed_password=?, is_active=?
        WHERE id=?`

	res, err := r.db.ExecContext(ctx, query,
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
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	const query = `
        SELECT id, username, email, role, hashed_password, is_active
        FROM admins WHERE id=?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	const query = `
        SELECT id, username, email, role, hashed_password, is_active
        FROM admins WHERE username=?`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *adminRepository) scanOne(row *sql.Row) (*domain.Principal, error) {
	var p domain.Principal
	if err := row.Scan(
		&p.ID,
		&p.Username,
		&p.Email,
		&p.Role,
		&p.HashedPassword,
		&p.IsActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
