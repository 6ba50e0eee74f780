package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeDemo uses the fixed demo account table (for demos and development).
	AuthModeDemo AuthMode = "demo"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "demo":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, demo)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"clientus"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"clientus"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DemoAuthConfig controls the demo credential resolver.
// Used when AUTH_MODE=demo; the account table itself is fixed in code.
type DemoAuthConfig struct {
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity resolver to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"demo"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// Demo configuration (used when Mode=demo).
	Demo DemoAuthConfig `envPrefix:"DEMO_AUTH_"`

	// GenerationTTL bounds how long login generation counters are kept.
	// Abandoned login attempts expire after this window.
	GenerationTTL time.Duration `env:"AUTH_GENERATION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Demo.SessionDuration <= 0 {
		a.Demo.SessionDuration = 8 * time.Hour
	}
	if a.GenerationTTL <= 0 {
		a.GenerationTTL = 24 * time.Hour
	}
}
