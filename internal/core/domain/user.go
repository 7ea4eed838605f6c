package domain

import "time"

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is a platform identity. Passwordless accounts carry a nil
// PasswordHash. Users are never hard-deleted; IsActive is the soft-delete
// flag.
type User struct {
	ID           int64
	UUID         string
	Email        string
	Name         string
	PasswordHash *string
	Status       UserStatus
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthenticate reports whether the account may start a login.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && u.Status == UserStatusActive
}
