package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	mocks "github.com/clientus/portal/internal/mocks/auth"
	"github.com/clientus/portal/internal/ports"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockGenerationCounter is a test helper for steering generation outcomes.
type mockGenerationCounter struct {
	nextFunc   func(context.Context, string) (int64, error)
	commitFunc func(context.Context, string, int64) (bool, error)
}

func (m *mockGenerationCounter) Next(ctx context.Context, subject string) (int64, error) {
	if m.nextFunc != nil {
		return m.nextFunc(ctx, subject)
	}
	return 1, nil
}

func (m *mockGenerationCounter) Commit(ctx context.Context, subject string, gen int64) (bool, error) {
	if m.commitFunc != nil {
		return m.commitFunc(ctx, subject, gen)
	}
	return true, nil
}

func TestNewAuthService(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()
	roles := mocks.FixedRoleMapper(domainauth.RoleClient)

	opts := AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    roles,
	}

	service := NewAuthService(opts)

	assert.NotNil(t, service)
	assert.Equal(t, provider, service.provider)
	assert.Equal(t, sessions, service.sessions)
	assert.Equal(t, roles, service.roles)
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	provider := mocks.NewMockAuthProvider()

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	ctx := context.Background()
	redirectURL := "http://localhost:8080/auth/callback"

	result, err := service.BeginLogin(ctx, redirectURL)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_EmptyRedirectURL(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
	assert.Contains(t, err.Error(), "provider error")
}

func TestAuthService_BeginLogin_NotConfigured(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/auth/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "provider login is not configured")
}

func TestAuthService_CompleteLogin_Success(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Provider:    provider,
		Sessions:    sessions,
		Generations: mocks.NewMemoryGenerationCounter(),
	})

	ctx := context.Background()
	input := CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}

	result, err := service.CompleteLogin(ctx, input)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "mock-user-1", result.Session.UserID)
	assert.Equal(t, "mock.user@example.com", result.Session.Email)
	assert.Equal(t, domainauth.RoleClient, result.Session.Role)
	assert.Equal(t, domainauth.SourceProvider, result.Session.Source)
	assert.Equal(t, int64(1), result.Session.Generation)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_CompleteLogin_RoleMapperOverridesIdentity(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.DefaultUser.Role = domainauth.RoleAdmin

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
		Roles:    mocks.FixedRoleMapper(domainauth.RoleGuest),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleGuest, result.Session.Role)
}

func TestAuthService_CompleteLogin_MissingCode(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "authorization code is required")
}

func TestAuthService_CompleteLogin_MissingState(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "state parameter is required")
}

func TestAuthService_CompleteLogin_MissingNonce(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "nonce parameter is required")
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("exchange error")
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Contains(t, err.Error(), "exchange error")
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	sessions := &mockSessionStore{
		saveFunc: func(_ context.Context, _ domainauth.Session) error {
			return errors.New("save error")
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "save session")
	assert.Contains(t, err.Error(), "save error")
}

func TestAuthService_CompleteLogin_StaleLogin(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	generations := &mockGenerationCounter{
		nextFunc: func(_ context.Context, _ string) (int64, error) {
			return 1, nil
		},
		commitFunc: func(_ context.Context, _ string, _ int64) (bool, error) {
			// A newer login for the same subject committed in between.
			return false, nil
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider:    mocks.NewMockAuthProvider(),
		Sessions:    sessions,
		Generations: generations,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrStaleLogin)

	// The superseded session must not linger.
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_CompleteLogin_GenerationAllocError(t *testing.T) {
	generations := &mockGenerationCounter{
		nextFunc: func(_ context.Context, _ string) (int64, error) {
			return 0, errors.New("counter unavailable")
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Provider:    mocks.NewMockAuthProvider(),
		Sessions:    mocks.NewMemorySessionStore(),
		Generations: generations,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "allocate login generation")
	assert.Contains(t, err.Error(), "counter unavailable")
}

func TestAuthService_LoginWithCredentials_Success(t *testing.T) {
	credentials := mocks.NewMockCredentialAuthenticator("cliente@demo.com")
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Credentials: credentials,
		Sessions:    sessions,
		Generations: mocks.NewMemoryGenerationCounter(),
	})

	result, err := service.LoginWithCredentials(context.Background(), "cliente@demo.com", "secret")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "cred-user-1", result.Session.UserID)
	assert.Equal(t, "cliente@demo.com", result.Session.Email)
	assert.Equal(t, domainauth.SourceDemo, result.Session.Source)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_LoginWithCredentials_WrongPassword(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Credentials: mocks.NewMockCredentialAuthenticator("cliente@demo.com"),
		Sessions:    mocks.NewMemorySessionStore(),
	})

	result, err := service.LoginWithCredentials(context.Background(), "cliente@demo.com", "wrong")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginWithCredentials_UnknownEmail(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Credentials: mocks.NewMockCredentialAuthenticator("cliente@demo.com"),
		Sessions:    mocks.NewMemorySessionStore(),
	})

	result, err := service.LoginWithCredentials(context.Background(), "nobody@demo.com", "secret")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginWithCredentials_EmptyInput(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Credentials: mocks.NewMockCredentialAuthenticator("cliente@demo.com"),
		Sessions:    mocks.NewMemorySessionStore(),
	})

	result, err := service.LoginWithCredentials(context.Background(), "", "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginWithCredentials_NotConfigured(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.LoginWithCredentials(context.Background(), "cliente@demo.com", "secret")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "credential login is not configured")
}

func TestAuthService_GetSession_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceProvider,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "test-session-1")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, session.ID, result.ID)
	assert.Equal(t, session.UserID, result.UserID)
	assert.Equal(t, session.Email, result.Email)
	assert.Equal(t, session.Role, result.Role)
}

func TestAuthService_GetSession_EmptyID(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.GetSession(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session ID is required")
}

func TestAuthService_GetSession_NotFound(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.GetSession(context.Background(), "non-existent")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "get session")
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Sessions: sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "expired-session")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session expired")

	// Verify the expired session was cleaned up
	_, err = sessions.Get(ctx, "expired-session")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_GetSession_DemoAccountRemoved(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	credentials := mocks.NewMockCredentialAuthenticator("cliente@demo.com")

	service := NewAuthService(AuthServiceOptions{
		Credentials: credentials,
		Sessions:    sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "orphan-session",
		UserID:    "user-123",
		Email:     "removido@demo.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceDemo,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "orphan-session")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session expired")

	_, err = sessions.Get(ctx, "orphan-session")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_GetSession_DemoAccountStillKnown(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	credentials := mocks.NewMockCredentialAuthenticator("cliente@demo.com")

	service := NewAuthService(AuthServiceOptions{
		Credentials: credentials,
		Sessions:    sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "demo-session",
		UserID:    "cred-user-1",
		Email:     "cliente@demo.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceDemo,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "demo-session")

	require.NoError(t, err)
	assert.Equal(t, "cliente@demo.com", result.Email)
}

func TestAuthService_Logout_ProviderSession_SignsOut(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceProvider,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	err := service.Logout(ctx, "test-session-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, provider.SignedOut)

	_, err = sessions.Get(ctx, "test-session-1")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_Logout_DemoSession_SkipsProviderSignOut(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "demo-session",
		UserID:    "cred-user-1",
		Email:     "cliente@demo.com",
		Role:      domainauth.RoleClient,
		Source:    domainauth.SourceDemo,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	err := service.Logout(ctx, "demo-session")

	require.NoError(t, err)
	assert.Empty(t, provider.SignedOut)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout_SignOutFailureIsSwallowed(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		SignOutFunc: func(_ context.Context, _ string) error {
			return errors.New("idp unreachable")
		},
	}
	sessions := mocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
	})

	ctx := context.Background()
	session := domainauth.Session{
		ID:        "test-session-1",
		Email:     "user@example.com",
		Source:    domainauth.SourceProvider,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	err := service.Logout(ctx, "test-session-1")

	require.NoError(t, err)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Logout_EmptyID(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Sessions: mocks.NewMemorySessionStore(),
	})

	// Logout with empty ID should not error
	err := service.Logout(context.Background(), "")

	assert.NoError(t, err)
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	sessions := &mockSessionStore{
		deleteFunc: func(_ context.Context, _ string) error {
			return errors.New("delete error")
		},
	}

	service := NewAuthService(AuthServiceOptions{
		Sessions: sessions,
	})

	err := service.Logout(context.Background(), "test-session")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
	assert.Contains(t, err.Error(), "delete error")
}

func TestGenerateSessionID(t *testing.T) {
	id1 := generateSessionID()
	id2 := generateSessionID()

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2) // Should generate unique IDs

	// Should be valid UUID format
	assert.Len(t, id1, 36) // UUID string length
	assert.Contains(t, id1, "-")
}
