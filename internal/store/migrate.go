package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		roll_number TEXT UNIQUE NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		course TEXT,
		batch TEXT,
		admission_date DATE,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES students(id),
		attendance_date DATE NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('present', 'absent')),
		marked_by BIGINT NOT NULL REFERENCES admins(id),
		marked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		remarks TEXT,
		UNIQUE (student_id, attendance_date)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		admin_id BIGINT NOT NULL REFERENCES admins(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance (attendance_date)`,
	`CREATE INDEX IF NOT EXISTS idx_students_status ON students (status)`,
}

// Migrate creates the schema and seeds the default admin when the admins
// table is empty. Idempotent, runs at every startup.
func Migrate(ctx context.Context, db *sql.DB, adminUser, adminEmail, adminPassword string) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return seedAdmin(ctx, db, adminUser, adminEmail, adminPassword)
}

func seedAdmin(ctx context.Context, db *sql.DB, username, email, password string) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO admins (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
	`, username, email, string(hash))
	if err == nil {
		log.Printf("seeded default admin %q", username)
	}
	return err
}
