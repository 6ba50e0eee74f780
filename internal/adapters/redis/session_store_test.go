package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceDemo,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.UserID, retrieved.UserID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.Equal(t, session.Source, retrieved.Source)
	assert.Equal(t, domainauth.SessionSchemaVersion, retrieved.SchemaVersion)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-delete",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	_, err = store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	err = store.Delete(ctx, "test-session-delete")
	require.NoError(t, err)

	_, err = store.Get(ctx, "test-session-delete")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-ttl",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		ExpiresAt: time.Now().Add(100 * time.Millisecond),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	time.Sleep(200 * time.Millisecond)

	_, err = store.Get(ctx, "test-session-ttl")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "prefix-test",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	exists := client.Exists(ctx, "test-prefix:prefix-test").Val()
	assert.Equal(t, int64(1), exists)

	retrieved, err := store.Get(ctx, "prefix-test")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
}

func TestSessionStore_SaveEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestSessionStore_SaveExpiredSession(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	err := store.Save(ctx, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session is expired")
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.Equal(t, ErrNotFound, err)
}

func TestSessionStore_CorruptedPayloadReadsAsMiss(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "session:corrupt", "{not json", time.Minute).Err())

	_, err := store.Get(ctx, "corrupt")
	assert.Equal(t, ErrNotFound, err)

	// The corrupt snapshot was removed
	exists := client.Exists(ctx, "session:corrupt").Val()
	assert.Equal(t, int64(0), exists)
}

func TestSessionStore_OldSchemaVersionDiscarded(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	stale := `{"schema_version":0,"id":"old-schema","user_id":"user-123","expires_at":"2099-01-01T00:00:00Z"}`
	require.NoError(t, client.Set(ctx, "session:old-schema", stale, time.Minute).Err())

	_, err := store.Get(ctx, "old-schema")
	assert.Equal(t, ErrNotFound, err)

	exists := client.Exists(ctx, "session:old-schema").Val()
	assert.Equal(t, int64(0), exists)
}

func TestGenerationCounter_NextIsMonotonic(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	counter := NewGenerationCounter(client, time.Hour)
	ctx := context.Background()

	first, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	second, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestGenerationCounter_SubjectsAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	counter := NewGenerationCounter(client, time.Hour)
	ctx := context.Background()

	_, err := counter.Next(ctx, "user-a")
	require.NoError(t, err)

	gen, err := counter.Next(ctx, "user-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestGenerationCounter_CommitLastWriterWins(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	counter := NewGenerationCounter(client, time.Hour)
	ctx := context.Background()

	genA, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	genB, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)

	// The newer attempt commits first and wins
	won, err := counter.Commit(ctx, "user-123", genB)
	require.NoError(t, err)
	assert.True(t, won)

	// The older attempt loses its commit
	won, err = counter.Commit(ctx, "user-123", genA)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestGenerationCounter_CommitInOrder(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	counter := NewGenerationCounter(client, time.Hour)
	ctx := context.Background()

	genA, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	won, err := counter.Commit(ctx, "user-123", genA)
	require.NoError(t, err)
	assert.True(t, won)

	genB, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	won, err = counter.Commit(ctx, "user-123", genB)
	require.NoError(t, err)
	assert.True(t, won)
}
