package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/entity"
)

// ErrNotFound is returned when no user matches the lookup key.
var ErrNotFound = errors.New("user record not found")

// IDSource hands out store-assigned ids.
type IDSource interface {
	NewID() string
}

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db  *sqlx.DB
	ids IDSource
}

func NewUserRepo(db *sqlx.DB, ids IDSource) *UserRepo { return &UserRepo{db: db, ids: ids} }

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(32) PRIMARY KEY,
  username TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new user row with a fresh id.
func (r *UserRepo) Create(ctx context.Context, username string) (*entity.User, error) {
	const q = `INSERT INTO users (id, username) VALUES (:id, :username) RETURNING id, username, created_at`
	params := map[string]any{
		"id":       r.ids.NewID(),
		"username": username,
	}
	rows, err := r.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("no row returned")
	}
	var u entity.User
	if err := rows.StructScan(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	const q = `SELECT id, username, created_at FROM users ORDER BY created_at, id`
	out := []entity.User{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a user or returns ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	const q = `SELECT id, username, created_at FROM users WHERE id=$1`
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Ping reports whether the database answers.
func (r *UserRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
