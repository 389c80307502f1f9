// Package devauth signs everyone in as one configured couple. It backs
// AUTH_MODE=mock so the dashboard can be exercised without an identity provider.
package devauth

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/ports"
)

const defaultSessionDuration = 8 * time.Hour

// Config describes the fixed identity. UserID and Email must be set.
type Config struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	Groups          []string
	SessionDuration time.Duration
}

// Provider is a ports.AuthProvider whose login round trip never leaves the app.
type Provider struct {
	identity domainauth.Identity
	ttl      time.Duration
}

func NewProvider(cfg Config) (*Provider, error) {
	var errs []error
	if cfg.UserID == "" {
		errs = append(errs, errors.New("dev auth: user id is required"))
	}
	if cfg.Email == "" {
		errs = append(errs, errors.New("dev auth: email is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	ttl := cfg.SessionDuration
	if ttl <= 0 {
		ttl = defaultSessionDuration
	}
	return &Provider{
		identity: domainauth.Identity{
			UserID:    cfg.UserID,
			Email:     cfg.Email,
			FirstName: cfg.FirstName,
			LastName:  cfg.LastName,
			Groups:    slices.Clone(cfg.Groups),
		},
		ttl: ttl,
	}, nil
}

// Begin points the browser straight at our own callback.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, nonce := uuid.NewString(), uuid.NewString()
	q := url.Values{"code": {"dev"}, "state": {state}}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange ignores the code and hands back the configured identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	id := p.identity
	id.Groups = slices.Clone(p.identity.Groups)
	id.ExpiresAt = time.Now().Add(p.ttl)
	return id, nil
}
