package demoauth

// Package demoauth provides a credential resolver backed by a fixed account
// table. It exists for demos and local development only: every account
// shares one literal password. Never enable it for real deployments; wiring
// requires AUTH_MODE=demo to opt in explicitly.

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	domainauth "github.com/clientus/portal/internal/domain/auth"
)

// SentinelPassword is the single password accepted for every demo account.
// Deliberately insecure; see package comment.
const SentinelPassword = "password"

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match. Callers must not distinguish the two cases.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Account is one entry in the fixed demo table.
type Account struct {
	ID             string
	Name           string
	Email          string
	Role           domainauth.Role
	Status         domainauth.AccountStatus
	ContactPerson  string
	Company        string
	ProjectType    string
	VisibleMetrics []string
}

// DefaultAccounts is the demo dataset the portal ships with. The admin
// account plus three agency clients, mirrored by the dev seeder.
func DefaultAccounts() []Account {
	return []Account{
		{
			ID:            "admin-1",
			Name:          "Administrador",
			Email:         "admin@clientus.com",
			Role:          domainauth.RoleAdmin,
			Status:        domainauth.StatusActive,
			ContactPerson: "Admin User",
			ProjectType:   "system",
		},
		{
			ID:             "client-1",
			Name:           "Empresa ABC",
			Email:          "contato@empresaabc.com",
			Role:           domainauth.RoleClient,
			Status:         domainauth.StatusActive,
			ContactPerson:  "João Silva",
			ProjectType:    "Social Media",
			VisibleMetrics: []string{"impressions", "clicks", "ctr", "spent"},
		},
		{
			ID:             "client-2",
			Name:           "Startup XYZ",
			Email:          "hello@startupxyz.com",
			Role:           domainauth.RoleClient,
			Status:         domainauth.StatusActive,
			ContactPerson:  "Maria Santos",
			ProjectType:    "Performance Marketing",
			VisibleMetrics: []string{"impressions", "clicks", "ctr", "spent", "conversions"},
		},
		{
			ID:             "client-3",
			Name:           "Loja Online",
			Email:          "marketing@lojaonline.com",
			Role:           domainauth.RoleClient,
			Status:         domainauth.StatusPending,
			ContactPerson:  "Pedro Costa",
			ProjectType:    "E-commerce",
			VisibleMetrics: []string{"impressions", "clicks", "conversions", "spent"},
		},
	}
}

// Config controls the demo resolver.
type Config struct {
	Accounts        []Account     // defaults to DefaultAccounts when empty
	SessionDuration time.Duration // default 8h when zero
}

// Resolver implements ports.CredentialAuthenticator over the fixed table.
// Lookups are exact, case-sensitive email matches.
type Resolver struct {
	byEmail         map[string]Account
	sessionDuration time.Duration
}

// NewResolver constructs a demo resolver from Config.
func NewResolver(cfg Config) *Resolver {
	accounts := cfg.Accounts
	if len(accounts) == 0 {
		accounts = DefaultAccounts()
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	byEmail := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byEmail[a.Email] = a
	}
	return &Resolver{byEmail: byEmail, sessionDuration: dur}
}

// Authenticate resolves an identity for the email/password pair. The only
// accepted password is the sentinel; comparison is constant-time to keep the
// code shaped like a real verifier even though the secret is public.
func (r *Resolver) Authenticate(_ context.Context, email, password string) (domainauth.Identity, error) {
	acct, ok := r.byEmail[email]
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(SentinelPassword)) == 1
	if !ok || !passwordOK {
		return domainauth.Identity{}, ErrInvalidCredentials
	}
	return domainauth.Identity{
		UserID:    acct.ID,
		Name:      acct.Name,
		Email:     acct.Email,
		Role:      acct.Role,
		Status:    acct.Status,
		Source:    domainauth.SourceDemo,
		Company:   acct.Company,
		ExpiresAt: time.Now().Add(r.sessionDuration),
	}, nil
}

// KnownEmail reports whether the email belongs to an account in the table.
// Used to invalidate hydrated demo sessions whose account no longer exists.
func (r *Resolver) KnownEmail(email string) bool {
	_, ok := r.byEmail[email]
	return ok
}

// Accounts returns a copy of the configured table, for the seeder and CLI.
func (r *Resolver) Accounts() []Account {
	out := make([]Account, 0, len(r.byEmail))
	for _, a := range r.byEmail {
		out = append(out, a)
	}
	return out
}
