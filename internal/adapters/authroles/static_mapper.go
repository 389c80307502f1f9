package authroles

import (
	"slices"

	domainauth "github.com/lovenote/lovenote-web/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to roles by exact membership.
// Every signed-in identity holds the user role; admin and premium are additive.
type StaticRoleMapper struct {
	AdminGroup   string
	PremiumGroup string
}

func (m StaticRoleMapper) Map(groups []string) []domainauth.Role {
	roles := []domainauth.Role{domainauth.RoleUser}
	if m.AdminGroup != "" && slices.Contains(groups, m.AdminGroup) {
		roles = append(roles, domainauth.RoleAdmin)
	}
	if m.PremiumGroup != "" && slices.Contains(groups, m.PremiumGroup) {
		roles = append(roles, domainauth.RolePremium)
	}
	return roles
}
