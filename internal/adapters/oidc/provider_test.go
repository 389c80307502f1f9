package oidc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/lovenote/lovenote-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeIdP serves discovery, token and userinfo endpoints for a single couple account.
type fakeIdP struct {
	srv      *httptest.Server
	userinfo map[string]any
	codes    []string
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	idp := &fakeIdP{userinfo: map[string]any{
		"sub":         "couple-42",
		"email":       "camille@example.com",
		"given_name":  "Camille",
		"family_name": "Martin",
		"groups":      []string{"premium"},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		base := idp.srv.URL
		writeJSON(w, DiscoveryDocument{
			Issuer:                base,
			AuthorizationEndpoint: base + "/authorize",
			TokenEndpoint:         base + "/token",
			UserinfoEndpoint:      base + "/userinfo",
			JwksURI:               base + "/jwks",
		})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		code := r.PostForm.Get("code")
		idp.codes = append(idp.codes, code)
		if code != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "invalid_grant"})
			return
		}
		writeJSON(w, map[string]any{"access_token": "at-1", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, idp.userinfo)
	})

	idp.srv = httptest.NewServer(mux)
	t.Cleanup(idp.srv.Close)
	return idp
}

func (f *fakeIdP) config(scope string) ProviderConfig {
	return ProviderConfig{
		ClientID:     "lovenote-web",
		ClientSecret: "shh",
		RedirectURL:  "https://app.lovenote.test/auth/callback",
		Scope:        scope,
		DiscoveryURL: f.srv.URL + "/.well-known/openid-configuration",
		LogoutURL:    f.srv.URL + "/logout",
		HTTPClient:   f.srv.Client(),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewProvider_Discovery(t *testing.T) {
	idp := newFakeIdP(t)

	p, err := NewProvider(idp.config("openid email"))
	require.NoError(t, err)

	var _ ports.AuthProvider = p
	assert.Equal(t, idp.srv.URL+"/authorize", p.config.Endpoint.AuthURL)
	assert.Equal(t, idp.srv.URL+"/token", p.config.Endpoint.TokenURL)
	assert.Equal(t, []string{"openid", "email"}, p.config.Scopes)
	assert.Equal(t, idp.srv.URL+"/logout", p.LogoutURL())
}

func TestNewProvider_RejectsIncompleteConfig(t *testing.T) {
	valid := ProviderConfig{
		ClientID:     "c",
		ClientSecret: "s",
		RedirectURL:  "http://localhost/callback",
		DiscoveryURL: "http://127.0.0.1:1",
	}

	cases := map[string]struct {
		mutate func(*ProviderConfig)
		want   string
	}{
		"client id":        {func(c *ProviderConfig) { c.ClientID = "" }, "client ID is required"},
		"client secret":    {func(c *ProviderConfig) { c.ClientSecret = "" }, "client secret is required"},
		"redirect":         {func(c *ProviderConfig) { c.RedirectURL = "" }, "redirect URL is required"},
		"discovery":        {func(c *ProviderConfig) { c.DiscoveryURL = "" }, "discovery URL is required"},
		"roles expression": {func(c *ProviderConfig) { c.RolesExpression = "app_metadata.[" }, "invalid roles expression"},
		"unreachable":      {func(*ProviderConfig) {}, "oidc new provider"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			_, err := NewProvider(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	p, err := NewProvider(newFakeIdP(t).config("openid"))
	require.NoError(t, err)

	_, _, _, err = p.Begin(t.Context(), ports.BeginInput{})
	require.ErrorContains(t, err, "redirect URL is required")

	authURL, state, nonce, err := p.Begin(t.Context(), ports.BeginInput{RedirectURL: "/dashboard"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.NotEqual(t, state, nonce)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "lovenote-web", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, nonce, q.Get("nonce"))
}

func TestProvider_Exchange_UserInfo(t *testing.T) {
	idp := newFakeIdP(t)
	cfg := idp.config("profile email")
	cfg.RolesExpression = "groups"
	p, err := NewProvider(cfg)
	require.NoError(t, err)

	before := time.Now()
	id, err := p.Exchange(t.Context(), ports.ExchangeInput{Code: "good-code", State: "st", Nonce: "n"})
	require.NoError(t, err)

	assert.Equal(t, "couple-42", id.UserID)
	assert.Equal(t, "camille@example.com", id.Email)
	assert.Equal(t, "Camille", id.FirstName)
	assert.Equal(t, "Martin", id.LastName)
	assert.Equal(t, []string{"premium"}, id.Groups)
	assert.Equal(t, []string{"premium"}, id.Roles)
	assert.WithinRange(t, id.ExpiresAt, before.Add(59*time.Minute), before.Add(61*time.Minute))
	assert.Equal(t, []string{"good-code"}, idp.codes)
}

func TestProvider_Exchange_Errors(t *testing.T) {
	idp := newFakeIdP(t)
	p, err := NewProvider(idp.config("openid email"))
	require.NoError(t, err)

	cases := []struct {
		name string
		in   ports.ExchangeInput
		want string
	}{
		{"no code", ports.ExchangeInput{State: "s", Nonce: "n"}, "authorization code is required"},
		{"no state", ports.ExchangeInput{Code: "c", Nonce: "n"}, "state is required"},
		{"no nonce", ports.ExchangeInput{Code: "c", State: "s"}, "nonce is required"},
		{"rejected code", ports.ExchangeInput{Code: "bad-code", State: "s", Nonce: "n"}, "exchange code for token"},
		// openid scope demands an id_token, which the fake never issues.
		{"no id token", ports.ExchangeInput{Code: "good-code", State: "s", Nonce: "n"}, "missing id_token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Exchange(t.Context(), tc.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestGetIDTokenFromToken(t *testing.T) {
	raw, err := getIDTokenFromToken((&oauth2.Token{}).WithExtra(map[string]any{"id_token": "a.b.c"}))
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", raw)

	_, err = getIDTokenFromToken((&oauth2.Token{}).WithExtra(map[string]any{"other": "x"}))
	require.ErrorContains(t, err, "missing id_token")

	_, err = getIDTokenFromToken(nil)
	require.ErrorContains(t, err, "nil token")
}

func TestIdentityFromClaims(t *testing.T) {
	claims := map[string]any{
		"sub":   "couple-7",
		"email": "noah@example.com",
		"app_metadata": map[string]any{
			"roles":       []any{"premium", 3, ""},
			"permissions": "guests.read",
		},
	}

	id, err := identityFromClaims(claims, "app_metadata.roles", "app_metadata.permissions")
	require.NoError(t, err)
	assert.Equal(t, "couple-7", id.UserID)
	assert.Equal(t, []string{"premium"}, id.Roles)
	assert.Equal(t, []string{"guests.read"}, id.Permissions)
	assert.Empty(t, id.Groups)

	id, err = identityFromClaims(claims, "app_metadata.missing", "")
	require.NoError(t, err)
	assert.Empty(t, id.Roles)
	assert.Empty(t, id.Permissions)

	_, err = identityFromClaims(map[string]any{"email": "x@example.com"}, "", "")
	require.ErrorContains(t, err, "missing sub claim")
}

func TestGenerateRandomString(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range []int{8, 16, 32, 43} {
		s, err := generateRandomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
		assert.False(t, seen[s])
		seen[s] = true
	}

	s, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}
