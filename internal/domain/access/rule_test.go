package access

import (
	"testing"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	member := domainauth.Session{
		Roles:       []domainauth.Role{domainauth.RoleUser},
		Permissions: []string{"guests.read"},
	}
	admin := domainauth.Session{
		Roles:       []domainauth.Role{domainauth.RoleAdmin},
		Permissions: []string{"admin.users.read"},
	}

	tests := []struct {
		name   string
		p      Principal
		rules  []Rule
		want   bool
		reason Reason
	}{
		{name: "no rules", p: member, want: true},
		{name: "no requirement anonymous", p: nil, rules: []Rule{NoRequirement()}, want: true},
		{name: "permission held", p: member, rules: []Rule{PermissionRequired("guests.read")}, want: true},
		{name: "permission missing", p: member, rules: []Rule{PermissionRequired("invitations.create")}, reason: ReasonMissingPermission},
		{name: "role missing", p: member, rules: []Rule{RoleRequired("premium")}, reason: ReasonMissingRole},
		{name: "anonymous with permission rule", p: nil, rules: []Rule{PermissionRequired("guests.read")}, reason: ReasonUnauthenticated},
		{name: "admin without permission", p: admin, rules: []Rule{AdminRequired("")}, want: true},
		{name: "admin with permission", p: admin, rules: []Rule{AdminRequired("admin.users.read")}, want: true},
		{name: "admin missing permission", p: admin, rules: []Rule{AdminRequired("admin.settings.read")}, reason: ReasonMissingPermission},
		{name: "member is not admin", p: member, rules: []Rule{AdminRequired("")}, reason: ReasonNotAdmin},
		{
			name:   "first failing rule wins",
			p:      member,
			rules:  []Rule{PermissionRequired("guests.read"), RoleRequired("premium"), PermissionRequired("x")},
			reason: ReasonMissingRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.p, tt.rules...)
			assert.Equal(t, tt.want, d.Allowed, d.String())
			if !tt.want {
				assert.Equal(t, tt.reason, d.Reason)
			}
		})
	}
}

func TestRules(t *testing.T) {
	assert.Empty(t, Rules("", ""))
	assert.Equal(t, []Rule{PermissionRequired("guests.read")}, Rules("guests.read", ""))
	assert.Equal(t, []Rule{PermissionRequired("a"), RoleRequired("premium")}, Rules("a", "premium"))
}

func TestRule_String(t *testing.T) {
	assert.Equal(t, "none", NoRequirement().String())
	assert.Equal(t, "permission:guests.read", PermissionRequired("guests.read").String())
	assert.Equal(t, "role:premium", RoleRequired("premium").String())
	assert.Equal(t, "admin", AdminRequired("").String())
	assert.Equal(t, "admin:admin.users.read", AdminRequired("admin.users.read").String())
}
