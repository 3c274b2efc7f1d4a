package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/wikied/internal/client/storage"
	"github.com/dmitrijs2005/wikied/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Get(context.Context, string) (string, error) { return "", f.err }
func (f failingStore) Delete(context.Context, ...string) error { return f.err }
func (f failingStore) SetMany(context.Context, map[string]string) error { return f.err }
func (f failingStore) Set(context.Context, string, string) error { return f.err }

func TestSession_LoginPersistsAndLoads(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	s := New(store, nil)
	assert.False(t, s.IsAuthenticated())
	require.NoError(t, s.Login(ctx, "acc", "ref"))
	assert.True(t, s.IsAuthenticated())

	v, err := store.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "acc", v)

	restored := New(store, nil)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, "acc", restored.AccessToken())
	assert.Equal(t, "ref", restored.RefreshToken())
	assert.True(t, restored.IsAuthenticated())
}

func TestSession_LoadEmptyStore(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	require.NoError(t, s.Load(context.Background()))
	assert.False(t, s.IsAuthenticated())
}

func TestSession_LoadStoreError(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(failingStore{err: boom}, nil)
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSession_LoginRejectsEmptyTokens(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	assert.ErrorIs(t, s.Login(context.Background(), "", "ref"), common.ErrInvalidToken)
	assert.False(t, s.IsAuthenticated())
}

func TestSession_SetAccessTokenKeepsRefresh(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := New(store, nil)
	require.NoError(t, s.Login(ctx, "old", "ref"))

	require.NoError(t, s.SetAccessToken(ctx, "new"))
	assert.Equal(t, "new", s.AccessToken())
	assert.Equal(t, "ref", s.RefreshToken())

	v, err := store.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestSession_ClearNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := New(store, nil)

	var events []bool
	unsubscribe := s.Subscribe(func(a bool) { events = append(events, a) })

	require.NoError(t, s.Login(ctx, "acc", "ref"))
	require.NoError(t, s.Logout(ctx))
	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, []bool{true, false}, events)

	_, err := store.Get(ctx, common.RefreshTokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.Login(ctx, "acc", "ref"))
	assert.Len(t, events, 2)
}

func TestSession_ClearForgetsEvenWhenStoreFails(t *testing.T) {
	boom := errors.New("locked")
	s := New(failingStore{err: boom}, nil)
	s.access, s.refresh = "acc", "ref"

	err := s.Clear(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.RefreshToken())
}

func TestSession_ExpiresAt(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore(), nil)

	_, ok := s.ExpiresAt()
	assert.False(t, ok)

	exp := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, tok, "ref"))
	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, s.SetAccessToken(ctx, "opaque"))
	_, ok = s.ExpiresAt()
	assert.False(t, ok)
}
