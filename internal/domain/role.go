package domain

// Role is the caller's authorization level. Roles are fixed: there are
// exactly three and they are not a general permission system.
type Role string

const (
	// RoleUser covers both anonymous visitors and regular signed-in users.
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Caller identifies who is making a request. It is supplied by the auth
// layer; an anonymous request carries the zero UserID and RoleUser.
type Caller struct {
	UserID   string
	UserName string
	Role     Role
}
