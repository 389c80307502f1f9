// Package auth holds hand-written fakes for the auth ports. They keep state
// in memory and expose error fields to simulate an unreachable Redis.
package auth

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/lovenote/lovenote-web/internal/ports"
)

var (
	_ ports.AuthProvider       = (*MockAuthProvider)(nil)
	_ ports.SessionStore       = (*MemorySessionStore)(nil)
	_ ports.RoleMapper         = StaticRoleMapper{}
	_ ports.PermissionResolver = StaticPermissions{}
	_ ports.FlagStore          = (*MemoryFlagStore)(nil)
)

var ErrNotFound = ports.ErrSessionNotFound

// MockAuthProvider hands out state-N/nonce-N pairs and DefaultUser unless
// the Func hooks override it.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	begins atomic.Int64
}

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID:    "mock-user-1",
			Email:     "camille@example.com",
			FirstName: "Camille",
			LastName:  "Martin",
			Groups:    []string{"users"},
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	n := strconv.FormatInt(m.begins.Add(1), 10)
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, "state-" + n, "nonce-" + n, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	id := m.DefaultUser
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// MemorySessionStore stores sessions as given; expiry is left to the caller.
// A non-nil GetErr fails every Get.
type MemorySessionStore struct {
	GetErr error

	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]domainauth.Session{}}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	return domainauth.Session{}, ErrNotFound
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// StaticRoleMapper gives every user RoleUser plus admin and premium on
// exact group matches.
type StaticRoleMapper struct {
	AdminGroup   string
	PremiumGroup string
}

func (m StaticRoleMapper) Map(groups []string) []domainauth.Role {
	roles := []domainauth.Role{domainauth.RoleUser}
	for _, g := range []struct {
		name string
		role domainauth.Role
	}{{m.AdminGroup, domainauth.RoleAdmin}, {m.PremiumGroup, domainauth.RolePremium}} {
		if g.name != "" && slices.Contains(groups, g.name) {
			roles = append(roles, g.role)
		}
	}
	return roles
}

// StaticPermissions resolves permissions from Grants, or fails with Err.
type StaticPermissions struct {
	Grants map[domainauth.Role][]string
	Err    error
}

func (s StaticPermissions) PermissionsForRoles(_ context.Context, roles []domainauth.Role) ([]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var out []string
	for _, r := range roles {
		out = append(out, s.Grants[r]...)
	}
	return out, nil
}

type flagKey struct{ tab, name string }

// MemoryFlagStore keeps per-tab flags. A non-nil Err fails every call.
type MemoryFlagStore struct {
	Err error

	mu    sync.Mutex
	flags map[flagKey]string
}

func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{flags: map[flagKey]string{}}
}

func (m *MemoryFlagStore) Get(_ context.Context, tabID, name string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.flags[flagKey{tabID, name}]
	return v, ok, nil
}

func (m *MemoryFlagStore) Set(_ context.Context, tabID, name, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.flags[flagKey{tabID, name}] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryFlagStore) Delete(_ context.Context, tabID, name string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	delete(m.flags, flagKey{tabID, name})
	m.mu.Unlock()
	return nil
}
