package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"slices"
	"time"
)

// Role represents a coarse authorization grouping.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePremium Role = "premium"
	RoleUser    Role = "user"
)

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID      string // stable user identifier (sub)
	FirstName   string
	LastName    string
	Email       string
	Groups      []string
	Roles       []string // roles claimed directly by the IdP, if any
	Permissions []string // permissions claimed directly by the IdP, if any
	ExpiresAt   time.Time
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Roles       []Role    `json:"roles"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HasRole reports whether the session holds the named role.
func (s Session) HasRole(name string) bool {
	return slices.Contains(s.Roles, Role(name))
}

// HasPermission reports whether the session holds the named permission.
func (s Session) HasPermission(name string) bool {
	return slices.Contains(s.Permissions, name)
}

// IsAdmin reports whether the session holds the admin role.
func (s Session) IsAdmin() bool { return s.HasRole(string(RoleAdmin)) }

// SessionStatus describes how far session resolution got for a request.
type SessionStatus string

const (
	// SessionLoading means the session backend could not answer yet.
	SessionLoading SessionStatus = "loading"
	// SessionResolved means the request is known to be anonymous or authenticated.
	SessionResolved SessionStatus = "resolved"
)

// SessionState is the resolved authentication state for one request.
type SessionState struct {
	Status  SessionStatus
	Session *Session
}

// IsLoading reports whether session resolution is still pending.
func (s SessionState) IsLoading() bool { return s.Status == SessionLoading }

// IsAuthenticated reports whether a session was resolved for the request.
func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionResolved && s.Session != nil
}

// Anonymous is the resolved state of a visitor without a session.
func Anonymous() SessionState { return SessionState{Status: SessionResolved} }

// Authenticated wraps a session in a resolved state.
func Authenticated(s *Session) SessionState {
	return SessionState{Status: SessionResolved, Session: s}
}

// Loading is the state of a request whose session backend is unavailable.
func Loading() SessionState { return SessionState{Status: SessionLoading} }

// NormalizeRoles converts raw role strings into a sorted, de-duplicated role set.
func NormalizeRoles(raw []string) []Role {
	out := make([]Role, 0, len(raw))
	for _, r := range raw {
		if r == "" {
			continue
		}
		out = append(out, Role(r))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// NormalizePermissions returns a sorted, de-duplicated permission set.
func NormalizePermissions(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
