package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("ADMIN_GROUP", "cn=admins,ou=groups,dc=example,dc=org")
	t.Setenv("PREMIUM_GROUP", "cn=premium,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://app.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("OAUTH_ROLES_EXPRESSION", "app_metadata.roles")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_FIRST_NAME", "Alex")
	t.Setenv("DEV_AUTH_LAST_NAME", "Durand")
	t.Setenv("DEV_AUTH_GROUPS", "admins;premium")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:        "app-client",
			ClientSecret:    "super-secret",
			RedirectURL:     "https://app.example.com/auth/callback",
			Scope:           "openid profile email",
			DiscoveryURL:    "https://login.example.com/.well-known/openid-configuration",
			RolesExpression: "app_metadata.roles",
		},
		DevAuth: DevAuthConfig{
			UserID:    "dev-user",
			Email:     "dev@example.com",
			FirstName: "Alex",
			LastName:  "Durand",
			Groups:    []string{"admins", "premium"},
		},
		AdminGroup:   "cn=admins,ou=groups,dc=example,dc=org",
		PremiumGroup: "cn=premium,ou=groups,dc=example,dc=org",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	if err := m.UnmarshalText([]byte("MOCK")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != AuthModeMock {
		t.Fatalf("expected mock, got %q", m)
	}
	if err := m.UnmarshalText([]byte("saml")); err == nil {
		t.Fatal("expected error for unsupported mode")
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Connection.ProbeInterval != 30*time.Second {
		t.Errorf("probe interval = %v, want 30s", cfg.Connection.ProbeInterval)
	}
	if cfg.Connection.ProbeTimeout != 5*time.Second {
		t.Errorf("probe timeout = %v, want 5s", cfg.Connection.ProbeTimeout)
	}
	if cfg.Connection.RetryDelay != 1500*time.Millisecond {
		t.Errorf("retry delay = %v, want 1.5s", cfg.Connection.RetryDelay)
	}
	if cfg.Gate.FallbackPath != "/" {
		t.Errorf("gate fallback = %q, want /", cfg.Gate.FallbackPath)
	}
	if cfg.Catalog.Limit != 50 {
		t.Errorf("catalog limit = %d, want 50", cfg.Catalog.Limit)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name       string
		in         HTTPConfig
		wantDomain string
		wantLevel  int
		wantBase   string
	}{
		{
			name:       "public suffix dropped",
			in:         HTTPConfig{CookieDomain: "co.uk", CompressionLevel: 6, BaseURL: "https://lovenote.fr/"},
			wantDomain: "",
			wantLevel:  6,
			wantBase:   "https://lovenote.fr",
		},
		{
			name:       "registrable domain kept",
			in:         HTTPConfig{CookieDomain: ".Lovenote.fr", CompressionLevel: 0},
			wantDomain: "lovenote.fr",
			wantLevel:  1,
		},
		{
			name:       "localhost kept",
			in:         HTTPConfig{CookieDomain: "localhost", CompressionLevel: 12},
			wantDomain: "localhost",
			wantLevel:  9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.in
			cfg.Sanitize()
			if cfg.CookieDomain != tt.wantDomain {
				t.Errorf("cookie domain = %q, want %q", cfg.CookieDomain, tt.wantDomain)
			}
			if cfg.CompressionLevel != tt.wantLevel {
				t.Errorf("compression level = %d, want %d", cfg.CompressionLevel, tt.wantLevel)
			}
			if cfg.BaseURL != tt.wantBase {
				t.Errorf("base url = %q, want %q", cfg.BaseURL, tt.wantBase)
			}
			if cfg.ShutdownTimeout != 10*time.Second || cfg.IdleTimeout != 2*time.Minute {
				t.Errorf("timeouts not defaulted: shutdown=%v idle=%v", cfg.ShutdownTimeout, cfg.IdleTimeout)
			}
		})
	}
}

func TestConnectionConfig_Sanitize(t *testing.T) {
	cfg := ConnectionConfig{ProbeInterval: 2 * time.Second, ProbeTimeout: 10 * time.Second, RetryDelay: -1, IdleTTL: 0}
	cfg.Sanitize()

	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("probe timeout = %v, want clamp to interval", cfg.ProbeTimeout)
	}
	if cfg.RetryDelay != 0 {
		t.Errorf("retry delay = %v, want 0", cfg.RetryDelay)
	}
	if cfg.IdleTTL != time.Minute {
		t.Errorf("idle ttl = %v, want 1m", cfg.IdleTTL)
	}
}

func TestGateConfig_Sanitize(t *testing.T) {
	for in, want := range map[string]string{
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"":                     "/",
		"/templates":           "/templates",
	} {
		cfg := GateConfig{Secret: "s", FallbackPath: in}
		cfg.Sanitize()
		if cfg.FallbackPath != want {
			t.Errorf("fallback %q -> %q, want %q", in, cfg.FallbackPath, want)
		}
	}
}

func TestAppConfig_ParseMetricsEnv(t *testing.T) {
	t.Setenv("STATSD_ADDRESS", "127.0.0.1:8125")
	t.Setenv("STATSD_ENV", "staging")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := MetricsConfig{StatsDAddress: "127.0.0.1:8125", Prefix: "lovenote", Env: "staging"}
	if cfg.Metrics != want {
		t.Fatalf("metrics = %#v, want %#v", cfg.Metrics, want)
	}
}
