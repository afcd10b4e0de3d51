package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tasktrack/internal/client/storage"
	"github.com/iudanet/tasktrack/internal/client/storage/boltdb"
	"github.com/iudanet/tasktrack/pkg/api"
)

func newTestStorage(t *testing.T) *boltdb.Storage {
	t.Helper()
	s, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestManager(t *testing.T, vault *Vault) (*Manager, *boltdb.Storage) {
	t.Helper()
	s := newTestStorage(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(s, s, vault, logger), s
}

func TestManager_EmptyStore(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	access, err := m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)

	refresh, err := m.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)

	s, err := m.Session(ctx)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)

	claims, err := m.Claims(ctx)
	require.NoError(t, err)
	assert.Nil(t, claims)
}

func TestManager_EstablishAndClear(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	user := &api.User{ID: "u1", Email: "ada@example.com"}
	require.NoError(t, m.Establish(ctx, api.Tokens{AccessToken: "A1", RefreshToken: "R1"}, user))

	access, err := m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)

	refresh, err := m.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "R1", refresh)

	s, err := m.Session(ctx)
	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, "u1", s.User.ID)

	cleared := 0
	m.OnClear(func() { cleared++ })
	m.OnClear(func() { cleared++ })

	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, 2, cleared)

	access, err = m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)

	refresh, err = m.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, refresh)

	s, err = m.Session(ctx)
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated)
}

func TestManager_UpdateAccessToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	// Без пары обновлять нечего
	err := m.UpdateAccessToken(ctx, "A2")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)

	require.NoError(t, m.Establish(ctx, api.Tokens{AccessToken: "A1", RefreshToken: "R1"}, nil))
	require.NoError(t, m.UpdateAccessToken(ctx, "A2"))

	tokens, err := m.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A2", tokens.AccessToken)
	assert.Equal(t, "R1", tokens.RefreshToken)
}

func TestManager_Vault(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	vault, err := OpenVault(ctx, s, "correct horse")
	require.NoError(t, err)
	require.NotNil(t, vault)

	m := NewManager(s, s, vault, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, m.Establish(ctx, api.Tokens{AccessToken: "A1", RefreshToken: "R1"}, nil))

	// На диске токены зашифрованы
	raw, err := s.GetTokens(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "A1", raw.AccessToken)
	assert.NotEqual(t, "R1", raw.RefreshToken)

	// Та же passphrase на той же соли дает тот же ключ
	reopened, err := OpenVault(ctx, s, "correct horse")
	require.NoError(t, err)
	m2 := NewManager(s, s, reopened, slog.New(slog.NewTextHandler(io.Discard, nil)))

	access, err := m2.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", access)

	// Неверная passphrase не расшифрует токены
	wrong, err := OpenVault(ctx, s, "wrong")
	require.NoError(t, err)
	m3 := NewManager(s, s, wrong, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = m3.AccessToken(ctx)
	require.Error(t, err)
}

func TestOpenVault_EmptyPassphrase(t *testing.T) {
	s := newTestStorage(t)

	vault, err := OpenVault(context.Background(), s, "")
	require.NoError(t, err)
	assert.Nil(t, vault)

	// nil vault пропускает токены без изменений
	sealed, err := vault.Seal("token")
	require.NoError(t, err)
	assert.Equal(t, "token", sealed)

	_, err = s.GetVaultSalt(context.Background())
	assert.ErrorIs(t, err, storage.ErrMetadataNotFound)
}

func TestManager_ClearNotifiesOnStorageError(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	mockTokens := &storage.TokenStorageMock{
		DeleteTokensFunc: func(ctx context.Context) error {
			return errors.New("disk full")
		},
	}
	m := NewManager(mockTokens, s, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	notified := false
	m.OnClear(func() { notified = true })

	err := m.Clear(ctx)
	require.Error(t, err)
	assert.True(t, notified)
	assert.Len(t, mockTokens.DeleteTokensCalls(), 1)
}

func TestManager_GetTokensError(t *testing.T) {
	s := newTestStorage(t)
	mockTokens := &storage.TokenStorageMock{
		GetTokensFunc: func(ctx context.Context) (*storage.TokenData, error) {
			return nil, errors.New("boom")
		},
	}
	m := NewManager(mockTokens, s, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := m.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get tokens")
}

func TestParseClaims(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"email":  "ada@example.com",
		"exp":    exp.Unix(),
		"iat":    exp.Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("any-secret"))
	require.NoError(t, err)

	claims, err := ParseClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.False(t, claims.Expired(exp.Add(-time.Minute)))
	assert.True(t, claims.Expired(exp))

	_, err = ParseClaims("not-a-jwt")
	require.Error(t, err)
}

func TestManager_Claims(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u42"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	require.NoError(t, m.Establish(ctx, api.Tokens{AccessToken: signed, RefreshToken: "R"}, nil))

	claims, err := m.Claims(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u42", claims.Subject)
	assert.True(t, claims.ExpiresAt.IsZero())
	assert.False(t, claims.Expired(time.Now()))
}
