package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Admin is one credentialed administrator.
type Admin struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Repository reads and writes admin credentials in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindByLogin matches a username or email. Returns nil when unknown.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, last_login
		FROM admins WHERE username = $1 OR email = $1
	`, login)
	return scanAdmin(row)
}

// FindByID returns one admin by id. Returns nil when unknown.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, last_login
		FROM admins WHERE id = $1
	`, id)
	return scanAdmin(row)
}

// TouchLastLogin stamps a successful login.
func (r *Repository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// SetPasswordHash replaces an admin's credential hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET password_hash = $2 WHERE id = $1`, id, hash)
	return err
}

func scanAdmin(row *sql.Row) (*Admin, error) {
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.LastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
