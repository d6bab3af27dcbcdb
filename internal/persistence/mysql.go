package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/fusion-kit/auth-service/internal/config"
)

const adminSchema = `
CREATE TABLE IF NOT EXISTS admins (
    id BIGINT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(100) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    role VARCHAR(100) NOT NULL,
    hashed_password VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
)`

// MySQL wraps the database/sql handle backing the admin store.
type MySQL struct {
	DB *sql.DB
}

// NewMySQL opens the admin store connection.
func NewMySQL(ctx context.Context, cfg config.MySQLConfig, logger *zap.Logger) (*MySQL, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeSec) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("connected to mysql")
	return &MySQL{DB: db}, nil
}

// EnsureSchema creates the admins table when it does not exist.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	if m == nil || m.DB == nil {
		return errors.New("mysql not configured")
	}
	_, err := m.DB.ExecContext(ctx, adminSchema)
	return err
}

// Close releases the connection pool.
func (m *MySQL) Close() {
	if m != nil && m.DB != nil {
		_ = m.DB.Close()
	}
}

// Ping verifies connectivity.
func (m *MySQL) Ping(ctx context.Context) error {
	if m == nil || m.DB == nil {
		return errors.New("mysql not configured")
	}
	return m.DB.PingContext(ctx)
}
