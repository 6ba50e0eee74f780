package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider            = (*MockAuthProvider)(nil)
	_ ports.CredentialAuthenticator = (*MockCredentialAuthenticator)(nil)
	_ ports.SessionStore            = (*MemorySessionStore)(nil)
	_ ports.GenerationCounter       = (*MemoryGenerationCounter)(nil)
	_ ports.RoleMapper              = (FixedRoleMapper)("")
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)
	SignOutFunc  func(ctx context.Context, email string) error

	// Deterministic values for predictable testing
	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	// Internal state tracking for deterministic behavior
	callCount    int
	SignedOut    []string
	signOutGuard sync.Mutex
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			Name:      "Mock User",
			Email:     "mock.user@example.com",
			Role:      domainauth.RoleClient,
			Status:    domainauth.StatusActive,
			Source:    domainauth.SourceProvider,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Generate deterministic state and nonce based on call count
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.UserID == "" {
		user = domainauth.Identity{
			UserID: "mock-user-1",
			Name:   "Mock User",
			Email:  "mock.user@example.com",
			Role:   domainauth.RoleClient,
			Source: domainauth.SourceProvider,
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return user, nil
}

func (m *MockAuthProvider) SignOut(ctx context.Context, email string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, email)
	}
	m.signOutGuard.Lock()
	defer m.signOutGuard.Unlock()
	m.SignedOut = append(m.SignedOut, email)
	return nil
}

// MockCredentialAuthenticator resolves credentials from a fixed identity map
// keyed by email. The accepted password defaults to "secret".
type MockCredentialAuthenticator struct {
	AuthenticateFunc func(ctx context.Context, email, password string) (domainauth.Identity, error)

	Identities map[string]domainauth.Identity
	Password   string
}

// NewMockCredentialAuthenticator creates an authenticator with one active
// client identity under the given email.
func NewMockCredentialAuthenticator(email string) *MockCredentialAuthenticator {
	return &MockCredentialAuthenticator{
		Identities: map[string]domainauth.Identity{
			email: {
				UserID:    "cred-user-1",
				Name:      "Credential User",
				Email:     email,
				Role:      domainauth.RoleClient,
				Status:    domainauth.StatusActive,
				Source:    domainauth.SourceDemo,
				ExpiresAt: time.Now().Add(time.Hour),
			},
		},
		Password: "secret",
	}
}

func (m *MockCredentialAuthenticator) Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, email, password)
	}
	identity, ok := m.Identities[email]
	if !ok || password != m.Password {
		return domainauth.Identity{}, ErrNotFound
	}
	return identity, nil
}

func (m *MockCredentialAuthenticator) KnownEmail(email string) bool {
	_, ok := m.Identities[email]
	return ok
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are currently stored.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryGenerationCounter is an in-memory generation counter for unit tests.
// It mirrors the Redis adapter semantics: Next allocates monotonically per
// subject, Commit records the generation only when it is newer than the last
// committed one.
type MemoryGenerationCounter struct {
	mu        sync.Mutex
	next      map[string]int64
	committed map[string]int64
}

// NewMemoryGenerationCounter creates a new in-memory generation counter.
func NewMemoryGenerationCounter() *MemoryGenerationCounter {
	return &MemoryGenerationCounter{
		next:      make(map[string]int64),
		committed: make(map[string]int64),
	}
}

func (m *MemoryGenerationCounter) Next(_ context.Context, subject string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next[subject]++
	return m.next[subject], nil
}

func (m *MemoryGenerationCounter) Commit(_ context.Context, subject string, gen int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.committed[subject]; ok && last > gen {
		return false, nil
	}
	m.committed[subject] = gen
	return true, nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// FixedRoleMapper maps every identity to the same role.
type FixedRoleMapper domainauth.Role

func (m FixedRoleMapper) Map(domainauth.Identity) domainauth.Role {
	return domainauth.Role(m)
}
