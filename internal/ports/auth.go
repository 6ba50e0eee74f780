package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/clientus/portal/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)

	// SignOut performs a best-effort sign-out against the provider. Failures
	// must never prevent the local session from being cleared.
	SignOut(ctx context.Context, email string) error
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// CredentialAuthenticator resolves an identity from an email/password pair.
// The demo adapter implements this against a fixed account table.
type CredentialAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (domainauth.Identity, error)

	// KnownEmail reports whether the email belongs to a known account.
	// Used to validate hydrated demo sessions against the account table.
	KnownEmail(email string) bool
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// GenerationCounter allocates monotonic login generations per subject and
// tracks the newest committed generation, so a stale login completion can
// never overwrite a session established by a newer attempt.
type GenerationCounter interface {
	// Next allocates the next generation number for the subject.
	Next(ctx context.Context, subject string) (int64, error)

	// Commit records gen as committed for the subject. It returns false when
	// a newer generation has already committed (the caller must discard its
	// result).
	Commit(ctx context.Context, subject string, gen int64) (bool, error)
}

// RoleMapper derives the application role for a provider-sourced identity.
type RoleMapper interface {
	Map(identity domainauth.Identity) domainauth.Role
}
