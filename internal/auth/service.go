// Package auth is the access gate: bcrypt credential checks and server-side
// sessions referenced by a signed cookie. Every API route past login sits
// behind it.
package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"rollcall/internal/apperr"
)

const minPasswordLen = 6

// AdminStore is the credential surface; satisfied by *Repository.
type AdminStore interface {
	FindByLogin(ctx context.Context, login string) (*Admin, error)
	FindByID(ctx context.Context, id int64) (*Admin, error)
	TouchLastLogin(ctx context.Context, id int64) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
}

// Sessions is the session surface; satisfied by *SessionStore.
type Sessions interface {
	Create(ctx context.Context, adminID int64) (Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Identity is the authenticated caller injected into request context.
type Identity struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
}

// Service implements login, logout, session checks, and password rotation.
type Service struct {
	admins   AdminStore
	sessions Sessions
	signer   *Signer
	ttl      time.Duration
}

// NewService wires the access gate together.
func NewService(admins AdminStore, sessions Sessions, signer *Signer, ttl time.Duration) *Service {
	return &Service{admins: admins, sessions: sessions, signer: signer, ttl: ttl}
}

// Login verifies credentials and mints a session token for the cookie.
// Unknown user and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, login, password string) (Admin, string, error) {
	if login == "" || password == "" {
		return Admin{}, "", apperr.Validation("username and password are required")
	}
	admin, err := s.admins.FindByLogin(ctx, login)
	if err != nil {
		return Admin{}, "", apperr.Persistence(err, "look up admin")
	}
	if admin == nil {
		return Admin{}, "", apperr.Authentication("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return Admin{}, "", apperr.Authentication("invalid credentials")
	}
	if err := s.admins.TouchLastLogin(ctx, admin.ID); err != nil {
		return Admin{}, "", apperr.Persistence(err, "record login")
	}
	sess, err := s.sessions.Create(ctx, admin.ID)
	if err != nil {
		return Admin{}, "", apperr.Persistence(err, "create session")
	}
	token, err := s.signer.Sign(sess.ID, sess.ExpiresAt)
	if err != nil {
		return Admin{}, "", apperr.Persistence(err, "sign session token")
	}
	return *admin, token, nil
}

// Authenticate resolves a cookie/bearer token to the calling admin.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	sessionID, err := s.signer.Parse(token)
	if err != nil {
		return Identity{}, apperr.Authentication("invalid session token")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Identity{}, apperr.Persistence(err, "load session")
	}
	if sess == nil {
		return Identity{}, apperr.Authentication("session expired")
	}
	admin, err := s.admins.FindByID(ctx, sess.AdminID)
	if err != nil {
		return Identity{}, apperr.Persistence(err, "load admin %d", sess.AdminID)
	}
	if admin == nil {
		return Identity{}, apperr.Authentication("admin no longer exists")
	}
	return Identity{AdminID: admin.ID, Username: admin.Username}, nil
}

// Logout destroys the session behind a token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	sessionID, err := s.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperr.Persistence(err, "destroy session")
	}
	return nil
}

// ChangePassword verifies the current password before storing a fresh hash.
func (s *Service) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("current and new passwords are required")
	}
	if len(next) < minPasswordLen {
		return apperr.Validation("new password must be at least %d characters", minPasswordLen)
	}
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return apperr.Persistence(err, "load admin %d", adminID)
	}
	if admin == nil {
		return apperr.NotFound("admin %d", adminID)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return apperr.Authentication("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Persistence(err, "hash password")
	}
	if err := s.admins.SetPasswordHash(ctx, adminID, string(hash)); err != nil {
		return apperr.Persistence(err, "store password")
	}
	return nil
}

// SessionTTL exposes the configured session lifetime for cookie max-age.
func (s *Service) SessionTTL() time.Duration { return s.ttl }
