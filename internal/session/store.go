// Package session holds the signed-in operator's credentials and keeps them
// persisted across restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/domain"
)

// StorageKey is the snapshot key the session is persisted under.
const StorageKey = "auth-storage"

// Store is the process-wide credential store. It satisfies
// client.Authenticator.
type Store struct {
	mu      sync.Mutex
	current domain.Session
	kv      storage.KV
	log     *zap.Logger
}

func NewStore(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Load rehydrates the session from storage. A missing snapshot leaves the
// store signed out.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session.Load: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return fmt.Errorf("session.Load: decode: %w", err)
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// Save writes the current session to storage.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	return s.persist(ctx, sess)
}

func (s *Store) persist(ctx context.Context, sess domain.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session.Save: encode: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

// Current returns a snapshot of the session.
func (s *Store) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// Set replaces the session and persists it.
func (s *Store) Set(ctx context.Context, sess domain.Session) error {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return s.persist(ctx, sess)
}

// Clear signs out and persists the empty session.
func (s *Store) Clear(ctx context.Context) error {
	return s.Set(ctx, domain.Session{})
}

// Expire clears the session only if token is still the one held, and reports
// whether this call did the clearing. Concurrent 401s for the same token
// therefore end the session exactly once.
func (s *Store) Expire(token string) bool {
	s.mu.Lock()
	if token == "" || s.current.Token != token {
		s.mu.Unlock()
		return false
	}
	s.current = domain.Session{}
	s.mu.Unlock()

	if err := s.persist(context.Background(), domain.Session{}); err != nil {
		s.log.Warn("persist expired session", zap.Error(err))
	}
	return true
}
