package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider    ports.AuthProvider
	Sessions    ports.SessionStore
	Roles       ports.RoleMapper
	Permissions ports.PermissionResolver // optional
	Logger      *slog.Logger
	Now         func() time.Time
}

// AuthService orchestrates authentication flows by coordinating provider, role mapping,
// permission grants and session persistence.
type AuthService struct {
	provider    ports.AuthProvider
	sessions    ports.SessionStore
	roles       ports.RoleMapper
	permissions ports.PermissionResolver
	logger      *slog.Logger
	now         func() time.Time
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider:    opts.Provider,
		sessions:    opts.Sessions,
		roles:       opts.Roles,
		permissions: opts.Permissions,
		logger:      logger.With("component", "auth_service"),
		now:         now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code for an identity, resolves roles and permissions,
// and persists a new session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	switch {
	case input.Code == "":
		return nil, errors.New("authorization code is required")
	case input.State == "":
		return nil, errors.New("state parameter is required")
	case input.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	roles := s.resolveRoles(identity)
	perms, err := s.resolvePermissions(ctx, roles, identity.Permissions)
	if err != nil {
		return nil, err
	}

	session := domainauth.Session{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Email:       identity.Email,
		Roles:       roles,
		Permissions: perms,
		ExpiresAt:   identity.ExpiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "user signed in",
		"user_id", session.UserID,
		"roles", session.Roles,
		"permissions", len(session.Permissions),
	)
	return &session, nil
}

func (s *AuthService) resolveRoles(identity domainauth.Identity) []domainauth.Role {
	var raw []string
	if s.roles != nil {
		for _, r := range s.roles.Map(identity.Groups) {
			raw = append(raw, string(r))
		}
	}
	raw = append(raw, identity.Roles...)
	if len(raw) == 0 {
		raw = append(raw, string(domainauth.RoleUser))
	}
	return domainauth.NormalizeRoles(raw)
}

func (s *AuthService) resolvePermissions(
	ctx context.Context,
	roles []domainauth.Role,
	claimed []string,
) ([]string, error) {
	perms := slices.Clone(claimed)
	if s.permissions != nil {
		granted, err := s.permissions.PermissionsForRoles(ctx, roles)
		if err != nil {
			return nil, fmt.Errorf("resolve permissions: %w", err)
		}
		perms = append(perms, granted...)
	}
	return domainauth.NormalizePermissions(perms), nil
}

// GetSession retrieves a live session by ID. Expired sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// ResolveSession reports the authentication state of a request carrying sessionID.
// Unknown and expired sessions resolve as anonymous; any other store failure leaves
// the state loading.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) domainauth.SessionState {
	if sessionID == "" {
		return domainauth.Anonymous()
	}

	session, err := s.GetSession(ctx, sessionID)
	switch {
	case err == nil:
		return domainauth.Authenticated(session)
	case errors.Is(err, ports.ErrSessionNotFound), errors.Is(err, errSessionExpired):
		return domainauth.Anonymous()
	default:
		s.logger.WarnContext(ctx, "session store unavailable", "error", err)
		return domainauth.Loading()
	}
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// HasPermission reports whether session holds permission. A nil session holds nothing.
func (s *AuthService) HasPermission(session *domainauth.Session, permission string) bool {
	return session != nil && session.HasPermission(permission)
}

// HasRole reports whether session holds role. A nil session holds nothing.
func (s *AuthService) HasRole(session *domainauth.Session, role string) bool {
	return session != nil && session.HasRole(role)
}
