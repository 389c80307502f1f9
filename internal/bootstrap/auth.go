package bootstrap

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lovenote/lovenote-web/config"
	"github.com/lovenote/lovenote-web/internal/adapters/authroles"
	"github.com/lovenote/lovenote-web/internal/adapters/devauth"
	"github.com/lovenote/lovenote-web/internal/adapters/oidc"
	redisadapter "github.com/lovenote/lovenote-web/internal/adapters/redis"
	"github.com/lovenote/lovenote-web/internal/ports"
	"github.com/lovenote/lovenote-web/internal/service"
)

const devSessionDuration = 12 * time.Hour

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Permissions ports.PermissionResolver // optional
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid; every
// visitor is then anonymous.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	log := logger(cfg.Logger)
	if cfg.RedisClient == nil {
		log.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	sessions := redisadapter.NewSessionStore(cfg.RedisClient, "")
	roles := authroles.StaticRoleMapper{
		AdminGroup:   cfg.Auth.AdminGroup,
		PremiumGroup: cfg.Auth.PremiumGroup,
	}

	var (
		provider ports.AuthProvider
		ok       bool
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, ok = buildDevProvider(cfg.Auth.DevAuth, log)
	case config.AuthModeOAuth:
		provider, ok = buildOAuthProvider(cfg.Auth.OAuth, log)
	}
	if !ok {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:    provider,
		Sessions:    sessions,
		Roles:       roles,
		Permissions: cfg.Permissions,
		Logger:      log,
	})
}

//nolint:ireturn // callers only need the provider port.
func buildDevProvider(dev config.DevAuthConfig, log *slog.Logger) (ports.AuthProvider, bool) {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          dev.UserID,
		Email:           dev.Email,
		FirstName:       dev.FirstName,
		LastName:        dev.LastName,
		Groups:          dev.Groups,
		SessionDuration: devSessionDuration,
	})
	if err != nil {
		log.Warn("failed to create dev auth provider, auth disabled", "error", err)
		return nil, false
	}
	return prov, true
}

//nolint:ireturn // callers only need the provider port.
func buildOAuthProvider(oauth config.OAuthConfig, log *slog.Logger) (ports.AuthProvider, bool) {
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		log.Warn("AuthModeOAuth selected but required config missing; auth disabled",
			"discovery_url_empty", oauth.DiscoveryURL == "",
			"client_id_empty", oauth.ClientID == "",
			"client_secret_empty", oauth.ClientSecret == "",
		)
		return nil, false
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:              oauth.ClientID,
		ClientSecret:          oauth.ClientSecret,
		RedirectURL:           oauth.RedirectURL,
		Scope:                 oauth.Scope,
		DiscoveryURL:          oauth.DiscoveryURL,
		LogoutURL:             oauth.LogoutURL,
		RolesExpression:       oauth.RolesExpression,
		PermissionsExpression: oauth.PermissionsExpression,
	})
	if err != nil {
		log.Warn("failed to create OIDC provider, auth disabled", "error", err)
		return nil, false
	}
	return prov, true
}
