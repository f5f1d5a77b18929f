// Package domain contains the core types and business rules for the weekly
// record-keeping portal: users, books (weekly reporting periods), transactions,
// and the append-only action log.
package domain

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access (user and book management).
	RoleAdmin Role = "ADMIN"
	// RoleUser grants standard member access (own transactions only).
	RoleUser Role = "USER"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and record transactions.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusBanned indicates the user is blocked from logging in.
	UserStatusBanned UserStatus = "BANNED"
	// UserStatusRemoved indicates the account has been retired by an admin.
	UserStatusRemoved UserStatus = "REMOVED"
)

// SystemUserID is the reserved identity used as the actor for scheduler-driven
// actions. It exists as a real user record so every ActionLog actor reference
// resolves, but it has no password and can never log in.
const SystemUserID = "user-system"

// SystemUsername is the reserved username of the system actor.
const SystemUsername = "system"

// User represents an account in the portal.
type User struct {
	Timestamps
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the user account is in good standing.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsSystem returns true for the reserved scheduler actor.
func (u *User) IsSystem() bool {
	return u.ID == SystemUserID
}

// CanLogin returns true if the user may authenticate.
// The system actor is permanently non-login-capable.
func (u *User) CanLogin() bool {
	return u.IsActive() && !u.IsSystem()
}
