package http

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Sessions maps BFF session ids to live Apps. Apps lost to a restart are
// rebuilt from the durable store on first use.
type Sessions struct {
	store  session.Store
	newApp func() *storefront.App

	mu   sync.RWMutex
	apps map[string]*storefront.App
	sfg  singleflight.Group
}

func NewSessions(store session.Store, newApp func() *storefront.App) *Sessions {
	return &Sessions{
		store:  store,
		newApp: newApp,
		apps:   make(map[string]*storefront.App),
	}
}

// NewApp returns a signed-out App for login and signup.
func (s *Sessions) NewApp() *storefront.App {
	return s.newApp()
}

// Register persists the session behind a fresh id and keeps app live.
func (s *Sessions) Register(ctx context.Context, app *storefront.App, sess domain.Session) (string, error) {
	id := uuid.NewString()
	if err := s.store.Save(ctx, id, sess); err != nil {
		return "", err
	}
	s.mu.Lock()
	s.apps[id] = app
	s.mu.Unlock()
	return id, nil
}

func (s *Sessions) Resolve(ctx context.Context, id string) (*storefront.App, bool) {
	s.mu.RLock()
	app, ok := s.apps[id]
	s.mu.RUnlock()
	if ok {
		return app, true
	}

	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		sess, err := s.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		app := s.newApp()
		if err := app.SignIn(ctx, sess); err != nil {
			logger.WithCtx(ctx).Warn("session restored with degraded state", "error", err)
		}
		s.mu.Lock()
		s.apps[id] = app
		s.mu.Unlock()
		return app, nil
	})
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.WithCtx(ctx).Error("session lookup failed", "error", err)
		}
		return nil, false
	}
	return v.(*storefront.App), true
}

// Drop signs the App out and forgets the session everywhere.
func (s *Sessions) Drop(ctx context.Context, id string) error {
	s.mu.Lock()
	app, ok := s.apps[id]
	delete(s.apps, id)
	s.mu.Unlock()
	if ok {
		app.SignOut()
	}
	return s.store.Delete(ctx, id)
}
