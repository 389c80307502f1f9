package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_HasRoleAndPermission(t *testing.T) {
	s := Session{
		Roles:       []Role{RolePremium, RoleUser},
		Permissions: []string{"guests.read", "invitations.create"},
	}

	assert.True(t, s.HasRole("premium"))
	assert.False(t, s.HasRole("admin"))
	assert.False(t, s.IsAdmin())
	assert.True(t, s.HasPermission("guests.read"))
	assert.False(t, s.HasPermission("admin.users.read"))
}

func TestSessionState(t *testing.T) {
	assert.True(t, Loading().IsLoading())
	assert.False(t, Loading().IsAuthenticated())
	assert.False(t, Anonymous().IsAuthenticated())
	assert.False(t, Anonymous().IsLoading())

	s := &Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, Authenticated(s).IsAuthenticated())
	assert.False(t, Authenticated(nil).IsAuthenticated())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []Role{"admin", "user"}, NormalizeRoles([]string{"user", "", "admin", "user"}))
	assert.Equal(t, []string{"a.read", "b.read"}, NormalizePermissions([]string{"b.read", "a.read", "", "b.read"}))
}
