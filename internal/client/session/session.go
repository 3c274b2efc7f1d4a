// Package session holds the signed-in state of the client: the token pair,
// mirrored to persistent storage, and the derived "is authenticated" flag.
//
// A *Session is the api.Tokens source of the HTTP client, so a refreshed
// access token or a forced sign-out made by the client is persisted here.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/storage"
	"github.com/dmitrijs2005/wikied/internal/common"
	"github.com/dmitrijs2005/wikied/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	mu      sync.RWMutex
	store   storage.Store
	log     logging.Logger
	access  string
	refresh string

	subMu   sync.Mutex
	subs    map[int]func(authenticated bool)
	nextSub int
}

func New(store storage.Store, log logging.Logger) *Session {
	if log == nil {
		log = logging.NewNop()
	}
	return &Session{store: store, log: log, subs: make(map[int]func(bool))}
}

// Load mirrors the stored tokens into memory. Missing keys leave the
// session signed out.
func (s *Session) Load(ctx context.Context) error {
	access, err := s.get(ctx, common.AccessTokenKey)
	if err != nil {
		return err
	}
	refresh, err := s.get(ctx, common.RefreshTokenKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()

	s.publish(access != "")
	return nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// Login stores a fresh token pair.
func (s *Session) Login(ctx context.Context, access, refresh string) error {
	if access == "" || refresh == "" {
		return common.ErrInvalidToken
	}
	if err := s.store.SetMany(ctx, map[string]string{
		common.AccessTokenKey:  access,
		common.RefreshTokenKey: refresh,
	}); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}

	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()

	s.publish(true)
	return nil
}

// Logout forgets both tokens.
func (s *Session) Logout(ctx context.Context) error {
	return s.Clear(ctx)
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetAccessToken replaces the access token after a refresh.
func (s *Session) SetAccessToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, common.AccessTokenKey, token); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}

	s.mu.Lock()
	was := s.access != ""
	s.access = token
	s.mu.Unlock()

	if !was && token != "" {
		s.publish(true)
	}
	return nil
}

// Clear drops both tokens from memory and storage. Memory is cleared even
// when storage fails so the session is never left half signed in.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	was := s.access != ""
	s.access, s.refresh = "", ""
	s.mu.Unlock()

	err := s.store.Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey)
	if was {
		s.publish(false)
	}
	if err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

// ExpiresAt reads the exp claim of the access token without verifying the
// signature; only the server can verify it.
func (s *Session) ExpiresAt() (time.Time, bool) {
	tok := s.AccessToken()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		s.log.Debug(context.Background(), "access token is not a jwt", "error", err)
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subscribe registers fn to run whenever the session signs in or out. The
// returned func unregisters it.
func (s *Session) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Session) publish(authenticated bool) {
	s.subMu.Lock()
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(authenticated)
	}
}
