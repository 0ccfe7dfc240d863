// Package auth implements account registration and bearer-token login
// on top of the store. Tokens are opaque random hex strings held
// server-side, so logout and expiry need no client-side state.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/store"
)

var (
	// ErrMissingCredentials is returned when username or password is
	// empty.
	ErrMissingCredentials = errors.New("auth: username and password required")

	// ErrInvalidCredentials is returned on login with an unknown
	// username or a wrong password.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")

	// ErrInvalidToken is returned when a bearer token is unknown or
	// expired.
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

const tokenBytes = 32

// Service handles registration, login, and token checks.
type Service struct {
	users    store.UserRepo
	sessions store.SessionRepo
	ttl      time.Duration
	log      *logger.Logger
}

// NewService builds an auth service. A non-positive ttl falls back to
// DefaultSessionTTL.
func NewService(users store.UserRepo, sessions store.SessionRepo, ttl time.Duration, log *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		log:      log.With("service", "auth"),
	}
}

// Register creates an account and immediately logs it in. Returns
// store.ErrUsernameTaken when the username exists.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, *store.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &store.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	sess, err := s.startSession(ctx, u.ID, now)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", "username", username)
	return u, sess, nil
}

// Login checks the password and opens a new session. Unknown usernames
// and wrong passwords both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*store.User, *store.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, ErrMissingCredentials
	}

	u, err := s.users.ByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.startSession(ctx, u.ID, time.Now().UTC())
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("user logged in", "username", username)
	return u, sess, nil
}

// Logout drops the session for a token. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to its user. Expired sessions
// are dropped on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	sess, err := s.sessions.ByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !sess.ExpiresAt.After(time.Now().UTC()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.Warn("drop expired session", "error", err)
		}
		return nil, ErrInvalidToken
	}

	u, err := s.users.ByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) startSession(ctx context.Context, userID string, now time.Time) (*store.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	sess := &store.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
