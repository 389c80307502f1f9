// Package ports declares the boundaries between services and their adapters.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput is passed to AuthProvider.Begin.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput is passed to AuthProvider.Exchange with the callback parameters
// and the state and nonce remembered from Begin.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider is the identity provider behind /auth/login.
type AuthProvider interface {
	// Begin returns the URL to send the visitor to, plus the state and nonce
	// the callback must echo back.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange redeems the callback code for a verified identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore keeps server-side sessions keyed by the session cookie.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper turns IdP group names into roles.
type RoleMapper interface {
	Map(groups []string) []domainauth.Role
}

// PermissionResolver expands roles into granted permissions.
type PermissionResolver interface {
	PermissionsForRoles(ctx context.Context, roles []domainauth.Role) ([]string, error)
}
