package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	authURL2, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "https://mock-idp/auth", authURL2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{
		AuthURL:     "https://custom-idp/login",
		StatePrefix: "custom-state",
		NoncePrefix: "custom-nonce",
	}
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login", authURL)
	assert.Equal(t, "custom-state-1", state)
	assert.Equal(t, "custom-nonce-1", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	identity, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, "Mock User", identity.Name)
	assert.Equal(t, "mock.user@example.com", identity.Email)
	assert.Equal(t, domainauth.RoleClient, identity.Role)
	assert.Equal(t, domainauth.SourceProvider, identity.Source)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomUser(t *testing.T) {
	customUser := domainauth.Identity{
		UserID: "custom-user",
		Name:   "Custom Person",
		Email:  "custom@example.com",
		Role:   domainauth.RoleAdmin,
	}
	provider := &MockAuthProvider{DefaultUser: customUser}
	ctx := context.Background()

	identity, err := provider.Exchange(ctx, ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "custom-user", identity.UserID)
	assert.Equal(t, "Custom Person", identity.Name)
	assert.Equal(t, domainauth.RoleAdmin, identity.Role)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_SignOut_RecordsEmails(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	require.NoError(t, provider.SignOut(ctx, "a@example.com"))
	require.NoError(t, provider.SignOut(ctx, "b@example.com"))

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, provider.SignedOut)
}

func TestMockCredentialAuthenticator_Defaults(t *testing.T) {
	authn := NewMockCredentialAuthenticator("cliente@demo.com")
	ctx := context.Background()

	identity, err := authn.Authenticate(ctx, "cliente@demo.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "cred-user-1", identity.UserID)
	assert.Equal(t, domainauth.SourceDemo, identity.Source)

	_, err = authn.Authenticate(ctx, "cliente@demo.com", "wrong")
	assert.Equal(t, ErrNotFound, err)

	_, err = authn.Authenticate(ctx, "unknown@demo.com", "secret")
	assert.Equal(t, ErrNotFound, err)
}

func TestMockCredentialAuthenticator_KnownEmail(t *testing.T) {
	authn := NewMockCredentialAuthenticator("cliente@demo.com")

	assert.True(t, authn.KnownEmail("cliente@demo.com"))
	assert.False(t, authn.KnownEmail("unknown@demo.com"))
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
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
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
	assert.Equal(t, 1, store.Len())
}

func TestMemorySessionStore_GetNonExistent(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_SaveEmptyID(t *testing.T) {
	store := NewMemorySessionStore()

	err := store.Save(context.Background(), domainauth.Session{UserID: "user-123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, session))

	require.NoError(t, store.Delete(ctx, "test-session-1"))

	_, err := store.Get(ctx, "test-session-1")
	assert.Equal(t, ErrNotFound, err)

	// Delete with empty ID should not error
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestMemoryGenerationCounter_NextAndCommit(t *testing.T) {
	counter := NewMemoryGenerationCounter()
	ctx := context.Background()

	genA, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), genA)

	genB, err := counter.Next(ctx, "user-123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), genB)

	// The newer attempt commits first and wins
	won, err := counter.Commit(ctx, "user-123", genB)
	require.NoError(t, err)
	assert.True(t, won)

	// The older attempt loses
	won, err = counter.Commit(ctx, "user-123", genA)
	require.NoError(t, err)
	assert.False(t, won)
}

func TestFixedRoleMapper(t *testing.T) {
	mapper := FixedRoleMapper(domainauth.RoleAdmin)

	role := mapper.Map(domainauth.Identity{Role: domainauth.RoleClient})
	assert.Equal(t, domainauth.RoleAdmin, role)
}
