package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleCommercial = "comercial"
)

// User is an internal staff account. Accounts are created by the seeding CLI only.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidRole reports whether role is one of the known staff roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCommercial
}

// Caller is the identity a request acts as.
type Caller struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the caller bypasses ownership scoping.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// OwnerScope returns the owner id list queries must be restricted to, or ""
// when no ownership filter applies (admins, or callers without a user id).
func (c Caller) OwnerScope() string {
	if c.IsAdmin() {
		return ""
	}
	return c.UserID
}
