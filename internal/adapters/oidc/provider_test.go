package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	domainauth "github.com/clientus/portal/internal/domain/auth"
	"github.com/clientus/portal/internal/ports"
)

// discoveryDocument is the subset of the OIDC discovery response the tests
// need to fake a provider.
type discoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
}

// newDiscoveryServer serves a minimal discovery document whose issuer matches
// the server's own URL, as go-oidc requires.
func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := discoveryDocument{
			Issuer:                server.URL,
			AuthorizationEndpoint: server.URL + "/auth",
			TokenEndpoint:         server.URL + "/token",
			UserinfoEndpoint:      server.URL + "/userinfo",
			JwksURI:               server.URL + "/jwks",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
	server = httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func createTestProvider(t *testing.T) *Provider {
	t.Helper()

	server := newDiscoveryServer(t)
	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: server.URL,
	})
	require.NoError(t, err)
	return provider
}

func TestNewProvider_Success(t *testing.T) {
	server := newDiscoveryServer(t)

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: server.URL,
	})

	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.Equal(t, server.URL+"/auth", provider.config.Endpoint.AuthURL)
	assert.Equal(t, server.URL+"/token", provider.config.Endpoint.TokenURL)
}

func TestNewProvider_AcceptsDiscoveryURLWithWellKnownSuffix(t *testing.T) {
	server := newDiscoveryServer(t)

	provider, err := NewProvider(ProviderConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email",
		DiscoveryURL: server.URL + "/.well-known/openid-configuration",
	})

	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name: "missing client ID",
			config: ProviderConfig{
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client ID is required",
		},
		{
			name: "missing client secret",
			config: ProviderConfig{
				ClientID:     "client",
				RedirectURL:  "http://localhost/callback",
				DiscoveryURL: "http://example.com",
			},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "client", ClientSecret: "secret", DiscoveryURL: "http://example.com"},
			errMsg: "redirect URL is required",
		},
		{
			name: "missing discovery URL",
			config: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://localhost/callback",
			},
			errMsg: "discovery URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	provider := createTestProvider(t)
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.NotEmpty(t, authURL)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)
	assert.Contains(t, authURL, "/auth")
	assert.Contains(t, authURL, "client_id=test-client")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)
	assert.Contains(t, authURL, "prompt=select_account")
}

func TestProvider_Begin_EmptyRedirectURL(t *testing.T) {
	provider := createTestProvider(t)

	_, _, _, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: ""})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	provider := createTestProvider(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{
			name:   "missing code",
			input:  ports.ExchangeInput{State: "state", Nonce: "nonce"},
			errMsg: "authorization code is required",
		},
		{
			name:   "missing state",
			input:  ports.ExchangeInput{Code: "code", Nonce: "nonce"},
			errMsg: "state is required",
		},
		{
			name:   "missing nonce",
			input:  ports.ExchangeInput{Code: "code", State: "state"},
			errMsg: "nonce is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Exchange(ctx, tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_TokenEndpointFailure(t *testing.T) {
	provider := createTestProvider(t)

	// The fake token endpoint only serves the discovery document, so the
	// exchange itself must fail after validation passes.
	_, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "test-code",
		State: "test-state",
		Nonce: "test-nonce",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestProvider_SignOut_NoLogoutURL(t *testing.T) {
	p := &Provider{httpClient: http.DefaultClient}

	assert.NoError(t, p.SignOut(context.Background(), "user@example.com"))
}

func TestProvider_SignOut_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	p := &Provider{logoutURL: server.URL, httpClient: http.DefaultClient}

	assert.NoError(t, p.SignOut(context.Background(), "user@example.com"))
}

func TestProvider_SignOut_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	p := &Provider{logoutURL: server.URL, httpClient: http.DefaultClient}

	err := p.SignOut(context.Background(), "user@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestMapClaims(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour)

	identity := MapClaims(Claims{
		Sub:     "sub-123",
		Name:    "Maria Silva",
		Email:   "maria@empresaabc.com",
		Picture: "https://cdn.example.com/maria.png",
	}, expiresAt)

	assert.Equal(t, "sub-123", identity.UserID)
	assert.Equal(t, "Maria Silva", identity.Name)
	assert.Equal(t, "maria@empresaabc.com", identity.Email)
	assert.Equal(t, "https://cdn.example.com/maria.png", identity.AvatarURL)
	assert.Equal(t, domainauth.RoleClient, identity.Role)
	assert.Equal(t, domainauth.StatusActive, identity.Status)
	assert.Equal(t, domainauth.SourceProvider, identity.Source)
	assert.Equal(t, expiresAt, identity.ExpiresAt)
}

func TestMapClaims_NameFallsBackToEmail(t *testing.T) {
	identity := MapClaims(Claims{Sub: "sub-123", Email: "maria@empresaabc.com"}, time.Now())

	assert.Equal(t, "maria@empresaabc.com", identity.Name)
}

func TestMapClaims_NameFallsBackToGenericLabel(t *testing.T) {
	identity := MapClaims(Claims{Sub: "sub-123"}, time.Now())

	assert.Equal(t, "Usuário", identity.Name)
}

func TestMapClaims_ProviderCannotGrantAdmin(t *testing.T) {
	// Whatever the provider claims, resolved identities are portal clients.
	identity := MapClaims(Claims{Sub: "sub-123", Name: "Anyone"}, time.Now())

	assert.Equal(t, domainauth.RoleClient, identity.Role)
}

func TestIDTokenFromToken(t *testing.T) {
	tok := (&oauth2.Token{}).WithExtra(map[string]any{"id_token": "abc.def.ghi"})
	raw, err := idTokenFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", raw)

	tok2 := (&oauth2.Token{}).WithExtra(map[string]any{"not_id": "x"})
	_, err = idTokenFromToken(tok2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_token missing")
}

func TestGenerateRandomString(t *testing.T) {
	str1, err := generateRandomString(32)
	require.NoError(t, err)
	assert.NotEmpty(t, str1)

	str2, err := generateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, str1, str2)
}

func TestProvider_ImplementsInterface(t *testing.T) {
	provider := createTestProvider(t)
	var _ ports.AuthProvider = provider
}
