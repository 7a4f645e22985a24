// Package authorization defines the caller roles carried in access tokens.
package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseUserRole falls back to RoleUser for unknown values.
func ParseUserRole(s string) UserRole {
	if UserRole(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}
