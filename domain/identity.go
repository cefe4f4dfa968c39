package domain

// Built-in roles with special meaning for access decisions.
// Any other role name is an exact-match restricted role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the immutable identity of one connection, established once at
// upgrade time from validated token claims. It is never mutated afterwards:
// a role change takes effect on the next connection, not on live ones.
type Session struct {
	UserID   string
	Username string
	Role     string
}

// Set is a set of room ids.
type Set map[string]struct{}

// Contains reports membership of a room id.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// CanAccess decides whether a user role may enter a room guarded by
// requiredRole. Rooms requiring "user" are open to every authenticated role,
// admins go everywhere, everyone else needs an exact role match.
func CanAccess(userRole, requiredRole string) bool {
	if requiredRole == RoleUser {
		return true
	}
	if userRole == RoleAdmin {
		return true
	}
	return userRole == requiredRole
}
