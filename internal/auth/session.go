package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is one authenticated admin login.
type Session struct {
	ID        string
	AdminID   int64
	ExpiresAt time.Time
}

const sessionKeyPrefix = "rollcall:sess:"

// SessionStore keeps sessions in Redis with the sessions table behind it, so
// logins survive a Redis flush.
type SessionStore struct {
	redis *redis.Client
	db    *sql.DB
	ttl   time.Duration
}

// NewSessionStore creates a store with the given session lifetime.
func NewSessionStore(rdb *redis.Client, db *sql.DB, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{redis: rdb, db: db, ttl: ttl}
}

// Create mints a new session for an admin.
func (s *SessionStore) Create(ctx context.Context, adminID int64) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, admin_id, expires_at) VALUES ($1, $2, $3)
	`, sess.ID, sess.AdminID, sess.ExpiresAt); err != nil {
		return Session{}, err
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+sess.ID,
		strconv.FormatInt(adminID, 10), s.ttl).Err(); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get looks a session up, Redis first, table on miss. Returns nil when the
// session is unknown or expired.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.redis.Get(ctx, sessionKeyPrefix+id).Result()
	if err == nil {
		adminID, perr := strconv.ParseInt(val, 10, 64)
		if perr != nil {
			return nil, fmt.Errorf("corrupt session value: %w", perr)
		}
		return &Session{ID: id, AdminID: adminID}, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	var sess Session
	row := s.db.QueryRowContext(ctx,
		`SELECT id, admin_id, expires_at FROM sessions WHERE id = $1`, id)
	if err := row.Scan(&sess.ID, &sess.AdminID, &sess.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.Delete(ctx, id)
		return nil, nil
	}
	// Rehydrate redis for subsequent requests.
	_ = s.redis.Set(ctx, sessionKeyPrefix+id,
		strconv.FormatInt(sess.AdminID, 10), time.Until(sess.ExpiresAt)).Err()
	return &sess, nil
}

// Delete destroys a session in both stores.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+id).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
