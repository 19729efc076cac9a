package models

// Account roles.
const (
	RoleStudent = "student"
	RoleLeader  = "leader"
	RoleAdmin   = "admin"
)

// Roles lists every valid role, lowest privilege first.
var Roles = []string{RoleStudent, RoleLeader, RoleAdmin}

// IsValidRole reports whether role is one of Roles.
func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
