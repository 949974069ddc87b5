// Package session keeps the backend-issued session token of each shopper
// so a restarted storefront can pick the session back up.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrTokenExpired = errors.New("session token already expired")
)

type Store interface {
	Save(ctx context.Context, id string, s domain.Session) error
	Load(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// Claims is the part of the backend token the storefront reads.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenClaims parses token without verifying its signature. The backend
// owns verification; the storefront only needs the expiry.
func TokenClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ttlFor bounds limit by the token expiry when the token is a JWT carrying one.
// Opaque tokens get limit.
func ttlFor(token string, limit time.Duration, now time.Time) (time.Duration, error) {
	claims, err := TokenClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return limit, nil
	}
	left := claims.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0, ErrTokenExpired
	}
	if limit > 0 && limit < left {
		return limit, nil
	}
	return left, nil
}

type memoryEntry struct {
	session domain.Session
	expires time.Time
}

// MemoryStore is a process-local Store for the CLI and tests.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Save(_ context.Context, id string, s domain.Session) error {
	now := m.now()
	ttl, err := ttlFor(s.Token, m.ttl, now)
	if err != nil {
		return err
	}
	e := memoryEntry{session: s}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.Session{}, ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, id)
		return domain.Session{}, ErrNotFound
	}
	return e.session, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
