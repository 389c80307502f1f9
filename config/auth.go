package config

import (
	"fmt"
	"strings"
)

// AuthMode picks the login provider.
type AuthMode string

const (
	// AuthModeOAuth signs couples in through the OIDC provider.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock signs everyone in as the DEV_AUTH_* identity.
	AuthModeMock AuthMode = "mock"
)

func (a *AuthMode) UnmarshalText(text []byte) error {
	switch m := AuthMode(strings.ToLower(strings.TrimSpace(string(text)))); m {
	case AuthModeOAuth, AuthModeMock:
		*a = m
		return nil
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q, want oauth or mock", string(text))
	}
}

// OAuthConfig is read from OAUTH_*.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"lovenote"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"lovenote"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`

	// JMESPath over the ID token claims, e.g. "app_metadata.roles".
	RolesExpression       string `env:"ROLES_EXPRESSION"`
	PermissionsExpression string `env:"PERMISSIONS_EXPRESSION"`
}

// DevAuthConfig is the identity AUTH_MODE=mock hands out.
type DevAuthConfig struct {
	UserID    string   `env:"USER_ID"    envDefault:"dev-user"`
	Email     string   `env:"EMAIL"      envDefault:"dev@example.com"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Camille"`
	LastName  string   `env:"LAST_NAME"  envDefault:"Martin"`
	Groups    []string `env:"GROUPS"     envDefault:"premium" envSeparator:";"`
}

type AuthConfig struct {
	Mode    AuthMode      `env:"AUTH_MODE" envDefault:"oauth"`
	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// IdP groups mapped onto the admin and premium roles.
	AdminGroup   string `env:"ADMIN_GROUP" envDefault:"admins"`
	PremiumGroup string `env:"PREMIUM_GROUP" envDefault:"premium"`
}

// GateConfig configures the shared-secret gate protecting the /me page.
// The secret is a casual access gate and not a security boundary.
type GateConfig struct {
	// Secret is compared verbatim with the ?key= parameter or the prompt input.
	Secret string `env:"ME_PAGE_KEY" envDefault:"lovenote-me"`

	// FallbackPath is where a rejected visitor is sent.
	FallbackPath string `env:"ME_PAGE_FALLBACK" envDefault:"/"`
}

// Sanitize keeps FallbackPath on this site. Protocol-relative paths such as
// "//evil.example" count as off-site.
func (g *GateConfig) Sanitize() {
	p := g.FallbackPath
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		g.FallbackPath = "/"
	}
}
