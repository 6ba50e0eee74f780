package bootstrap

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clientus/portal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAuthServiceReturnsNilWithoutRedis(t *testing.T) {
	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "demo auth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeDemo,
				Demo: config.DemoAuthConfig{SessionDuration: 8 * time.Hour},
			},
		},
		{
			name: "oauth mode",
			auth: config.AuthConfig{
				Mode: config.AuthModeOAuth,
				OAuth: config.OAuthConfig{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					DiscoveryURL: "https://issuer.example.com",
					RedirectURL:  "https://app.example.com/auth/callback",
					Scope:        "openid",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Auth:        tt.auth,
				RedisClient: nil,
				Logger:      discardLogger(),
			}

			if svc := BuildAuthService(cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}

func TestBuildAuthService_DemoMode(t *testing.T) {
	cfg := AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeDemo,
			Demo: config.DemoAuthConfig{SessionDuration: 8 * time.Hour},
		},
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
		Logger:      discardLogger(),
	}

	if svc := BuildAuthService(cfg); svc == nil {
		t.Fatal("BuildAuthService() = nil, want demo auth service")
	}
}

func TestBuildAuthService_OAuthMissingConfig(t *testing.T) {
	cfg := AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID: "client-id",
				// client secret and discovery URL missing
			},
		},
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
		Logger:      discardLogger(),
	}

	if svc := BuildAuthService(cfg); svc != nil {
		t.Fatalf("BuildAuthService() = %v, want nil", svc)
	}
}

func TestBuildAuthService_OAuthMode(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 server.URL,
			"authorization_endpoint": server.URL + "/auth",
			"token_endpoint":         server.URL + "/token",
			"jwks_uri":               server.URL + "/jwks",
		})
	}))
	defer server.Close()

	cfg := AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				DiscoveryURL: server.URL,
				RedirectURL:  "https://app.example.com/auth/callback",
				Scope:        "openid",
			},
		},
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
		Logger:      discardLogger(),
	}

	if svc := BuildAuthService(cfg); svc == nil {
		t.Fatal("BuildAuthService() = nil, want oauth auth service")
	}
}

func TestBuildAuthService_UnknownMode(t *testing.T) {
	cfg := AuthConfig{
		Auth:        config.AuthConfig{Mode: config.AuthMode("ldap")},
		RedisClient: redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
		Logger:      discardLogger(),
	}

	if svc := BuildAuthService(cfg); svc != nil {
		t.Fatalf("BuildAuthService() = %v, want nil", svc)
	}
}
