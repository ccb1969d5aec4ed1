// Package models holds the persistence-facing record types shared by
// repositories and services.
package models

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// Permission names a single allowed action, e.g. "GRADE".
type Permission struct {
	Name string
}

// Role groups permissions under a name, e.g. "TEACHER".
type Role struct {
	Name        string
	Permissions []Permission
}

// User is the account record owned by the user directory. The auth subsystem
// only reads it: lookups during login and refresh.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Status       UserStatus
	Roles        []Role
	CreatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
