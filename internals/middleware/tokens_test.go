package middleware

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"university-library/initializers"
	logger "university-library/loggers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (s *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.data[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	return value, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

func TestCreateTokenPairRoundtrip(t *testing.T) {
	manager := NewTokenManager(newFakeStore(), "access-secret", "refresh-secret")

	pair, err := manager.CreateTokenPair("ada@university.edu")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessUuid, pair.RefreshUuid)

	access, err := manager.extractAccessTokenMetadata(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@university.edu", access.Email)
	assert.Equal(t, pair.AccessUuid, access.AccessUuid)

	refresh, err := manager.extractRefreshTokenMetadata(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ada@university.edu", refresh.Email)
	assert.Equal(t, pair.RefreshUuid, refresh.RefreshUuid)
}

func TestTokensSignedWithDistinctSecrets(t *testing.T) {
	manager := NewTokenManager(newFakeStore(), "access-secret", "refresh-secret")

	pair, err := manager.CreateTokenPair("ada@university.edu")
	require.NoError(t, err)

	// an access token must not validate as a refresh token and vice versa
	_, err = manager.extractRefreshTokenMetadata(pair.AccessToken)
	assert.Error(t, err)
	_, err = manager.extractAccessTokenMetadata(pair.RefreshToken)
	assert.Error(t, err)
}

func TestSaveTokenPairStoresBothUuids(t *testing.T) {
	store := newFakeStore()
	manager := NewTokenManager(store, "access-secret", "refresh-secret")

	pair, err := manager.CreateTokenPair("ada@university.edu")
	require.NoError(t, err)
	require.NoError(t, manager.SaveTokenPair(context.Background(), pair, "ada@university.edu"))

	email, err := store.Get(context.Background(), pair.AccessUuid)
	require.NoError(t, err)
	assert.Equal(t, "ada@university.edu", email)

	email, err = store.Get(context.Background(), pair.RefreshUuid)
	require.NoError(t, err)
	assert.Equal(t, "ada@university.edu", email)
}

func TestFetchAuthMissingToken(t *testing.T) {
	manager := NewTokenManager(newFakeStore(), "access-secret", "refresh-secret")

	pair, err := manager.CreateTokenPair("ada@university.edu")
	require.NoError(t, err)

	// never saved, so the uuid resolves to nothing: revoked session
	_, err = manager.FetchAuth(context.Background(), &AccessDetails{AccessUuid: pair.AccessUuid})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}
