package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/clientus/portal/config"
	"github.com/clientus/portal/internal/adapters/authroles"
	"github.com/clientus/portal/internal/adapters/demoauth"
	"github.com/clientus/portal/internal/adapters/oidc"
	redisadapter "github.com/clientus/portal/internal/adapters/redis"
	"github.com/clientus/portal/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Session store and generation counter are shared by both modes
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	generations := redisadapter.NewGenerationCounter(cfg.RedisClient, cfg.Auth.GenerationTTL)
	roleMapper := authroles.PolicyRoleMapper{}

	switch cfg.Auth.Mode {
	case config.AuthModeDemo:
		return buildDemoAuthService(cfg, sessionStore, generations, roleMapper)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore, generations, roleMapper)

	default:
		return nil
	}
}

func buildDemoAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	generations *redisadapter.GenerationCounter,
	roleMapper authroles.PolicyRoleMapper,
) *service.AuthService {
	resolver := demoauth.NewResolver(demoauth.Config{
		SessionDuration: cfg.Auth.Demo.SessionDuration,
	})

	return service.NewAuthService(service.AuthServiceOptions{
		Credentials: resolver,
		Sessions:    sessionStore,
		Generations: generations,
		Roles:       roleMapper,
		Logger:      cfg.Logger,
	})
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	generations *redisadapter.GenerationCounter,
	roleMapper authroles.PolicyRoleMapper,
) *service.AuthService {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:    prov,
		Sessions:    sessionStore,
		Generations: generations,
		Roles:       roleMapper,
		Logger:      cfg.Logger,
	})
}
