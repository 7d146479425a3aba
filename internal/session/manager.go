package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/offybox/offyadmin/pkg/client"
	"github.com/offybox/offyadmin/pkg/domain"
)

// ErrNotAuthenticated is returned by operations that need a signed-in operator.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// AuthAPI is the subset of the backend the manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	CreateUser(ctx context.Context, p domain.UserProfile) (*domain.SupportUser, error)
	ForgotPassword(ctx context.Context, email string) error
}

// Manager runs the login, registration, password-reset and logout flows
// against a Store.
type Manager struct {
	store *Store
	api   AuthAPI
	log   *zap.Logger
}

func NewManager(store *Store, api AuthAPI, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, api: api, log: log}
}

// Store returns the credential store the manager writes to.
func (m *Manager) Store() *Store {
	return m.store
}

// Login authenticates and replaces the session. On failure the previous
// session is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, client.NewValidationError(errors.New("email and password are required"))
	}
	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Info("login failed", zap.String("email", email), zap.Error(err))
		return domain.Session{}, fmt.Errorf("session.Login: %w", err)
	}

	sess := domain.Session{
		UserID:    resp.User.ID,
		FirstName: resp.User.FirstName,
		LastName:  resp.User.LastName,
		Email:     resp.User.Email,
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	}
	if sess.Email == "" {
		sess.Email = email
	}
	if sess.ExpiresAt == 0 {
		sess.ExpiresAt = tokenExpiry(resp.Token)
	}
	// The session is live in memory even when the snapshot write fails.
	if err := m.store.Set(ctx, sess); err != nil {
		m.log.Warn("persist session", zap.Error(err))
	}
	m.log.Info("signed in", zap.String("user_id", sess.UserID), zap.String("email", sess.Email))
	return sess, nil
}

// Register creates a support user on behalf of the signed-in operator. The
// operator's own session is never changed.
func (m *Manager) Register(ctx context.Context, p domain.UserProfile) (*domain.SupportUser, error) {
	if !m.store.Current().IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if p.Status == "" {
		p.Status = domain.UserActive
	}
	p.Email = strings.TrimSpace(p.Email)
	if err := domain.Validate(p); err != nil {
		return nil, client.NewValidationError(err)
	}
	u, err := m.api.CreateUser(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("session.Register: %w", err)
	}
	m.log.Info("registered support user", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

// ForgotPassword requests a reset link. The session is untouched.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return client.NewValidationError(errors.New("email is required"))
	}
	if err := m.api.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("session.ForgotPassword: %w", err)
	}
	return nil
}

// Logout signs out. Calling it when already signed out is harmless.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// Bootstrap installs a preconfigured token when nobody is signed in. It
// reports whether the token was adopted.
func (m *Manager) Bootstrap(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" || m.store.Current().IsAuthenticated() {
		return false, nil
	}
	sess := domain.Session{Token: token, ExpiresAt: tokenExpiry(token)}
	if claims, ok := parseClaims(token); ok {
		if sub, err := claims.GetSubject(); err == nil {
			sess.UserID = sub
		}
	}
	if err := m.store.Set(ctx, sess); err != nil {
		return false, fmt.Errorf("session.Bootstrap: %w", err)
	}
	return true, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the only party that can verify it. Returns 0 for opaque tokens.
func tokenExpiry(token string) int64 {
	claims, ok := parseClaims(token)
	if !ok {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
