package users

import "strings"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// RoleResolver derives a user's role from the free text position field.
// Exactly one configured position value grants the admin role.
type RoleResolver struct {
	adminPosition string
}

func NewRoleResolver(adminPosition string) RoleResolver {
	return RoleResolver{adminPosition: strings.TrimSpace(adminPosition)}
}

func (r RoleResolver) AdminPosition() string {
	return r.adminPosition
}

func (r RoleResolver) RoleOf(user *User) Role {
	if user != nil && r.adminPosition != "" && strings.TrimSpace(user.Position) == r.adminPosition {
		return RoleAdmin
	}
	return RoleStaff
}
