package auth

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

// DefaultRole is assigned when a user is created without one.
const DefaultRole = RoleEmployee

// UserContext is the caller identity carried on the request context.
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

func (u UserContext) IsAdmin() bool {
	return u.Role == RoleAdmin
}
