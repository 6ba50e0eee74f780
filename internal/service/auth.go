package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider    ports.AuthProvider
	Credentials ports.CredentialAuthenticator
	Sessions    ports.SessionStore
	Generations ports.GenerationCounter
	Roles       ports.RoleMapper
	Logger      *slog.Logger
}

// AuthService orchestrates authentication flows. Two resolvers feed it: the
// external provider (code flow) and the demo credential table (email and
// password). Both paths converge on the same session persistence and the
// same last-writer-wins generation guard.
type AuthService struct {
	provider    ports.AuthProvider
	credentials ports.CredentialAuthenticator
	sessions    ports.SessionStore
	generations ports.GenerationCounter
	roles       ports.RoleMapper
	logger      *slog.Logger
}

var (
	errSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned when an email/password pair does not
	// resolve to a known account. The message is deliberately uniform for
	// unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStaleLogin is returned when a login completion lost the race to a
	// newer login attempt for the same subject. The caller must discard the
	// result and keep whatever session the newer attempt established.
	ErrStaleLogin = errors.New("login superseded by a newer attempt")
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:    opts.Provider,
		credentials: opts.Credentials,
		sessions:    opts.Sessions,
		generations: opts.Generations,
		roles:       opts.Roles,
		logger:      logger.With("component", "auth_service"),
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates a provider authentication flow and returns the auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("provider login is not configured")
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a provider login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes a provider authentication flow by exchanging the
// code for an identity, mapping the role, and persisting a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if s.provider == nil {
		return nil, errors.New("provider login is not configured")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	return s.establishSession(ctx, identity)
}

// LoginWithCredentials resolves a demo account from an email/password pair
// and persists a session. Resolution failures of any kind surface as
// ErrInvalidCredentials.
func (s *AuthService) LoginWithCredentials(ctx context.Context, email, password string) (*CompleteLoginResult, error) {
	if s.credentials == nil {
		return nil, errors.New("credential login is not configured")
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	identity, err := s.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, identity)
}

// establishSession maps the role, allocates a login generation, persists the
// session, and commits the generation. A lost commit means a newer login for
// the same subject finished in between; the session just written is removed
// and ErrStaleLogin returned.
func (s *AuthService) establishSession(ctx context.Context, identity domainauth.Identity) (*CompleteLoginResult, error) {
	role := identity.Role
	if s.roles != nil {
		role = s.roles.Map(identity)
	}

	subject := identity.UserID
	var generation int64
	if s.generations != nil {
		gen, err := s.generations.Next(ctx, subject)
		if err != nil {
			return nil, fmt.Errorf("allocate login generation: %w", err)
		}
		generation = gen
	}

	session := domainauth.Session{
		SchemaVersion: domainauth.SessionSchemaVersion,
		ID:            generateSessionID(),
		UserID:        identity.UserID,
		Name:          identity.Name,
		Email:         identity.Email,
		Role:          role,
		Status:        identity.Status,
		Source:        identity.Source,
		Generation:    generation,
		AvatarURL:     identity.AvatarURL,
		Company:       identity.Company,
		ExpiresAt:     identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	if s.generations != nil {
		won, err := s.generations.Commit(ctx, subject, generation)
		if err != nil {
			return nil, fmt.Errorf("commit login generation: %w", err)
		}
		if !won {
			if deleteErr := s.sessions.Delete(ctx, session.ID); deleteErr != nil {
				s.logger.WarnContext(ctx, "failed to delete superseded session",
					"session_id", session.ID, "err", deleteErr)
			}
			return nil, ErrStaleLogin
		}
	}

	return &CompleteLoginResult{Session: session}, nil
}

// GetSession retrieves a session by ID. Demo-sourced sessions are
// revalidated against the account table so a snapshot for a removed demo
// account cannot keep working.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	if session.Source == domainauth.SourceDemo && s.credentials != nil &&
		!s.credentials.KnownEmail(session.Email) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. For provider-sourced sessions it also attempts a
// provider-side sign-out; failures there are logged and swallowed so logout
// stays idempotent and always clears local state.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err == nil && session.Source == domainauth.SourceProvider && s.provider != nil {
		if signOutErr := s.provider.SignOut(ctx, session.Email); signOutErr != nil {
			s.logger.WarnContext(ctx, "provider sign-out failed",
				"email", session.Email, "err", signOutErr)
		}
	}

	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return fmt.Errorf("delete session: %w", deleteErr)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
