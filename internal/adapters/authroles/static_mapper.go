// Package authroles maps identity provider groups onto dashboard roles.
package authroles

import (
	"slices"

	domainauth "github.com/carehaven/carehome-admin/internal/domain/auth"
)

// StaticRoleMapper grants roles by exact group membership.
// The super admin group wins over the admin group.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
}

// Map returns the highest role any of groups grants.
func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case m.SuperAdminGroup != "" && slices.Contains(groups, m.SuperAdminGroup):
		return domainauth.RoleSuperAdmin
	case m.AdminGroup != "" && slices.Contains(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	default:
		return domainauth.RoleGuest
	}
}
