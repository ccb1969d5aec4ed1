// Package users declares the read-side contract to the user directory. The
// directory itself (registration, profile editing) is owned by the rest of
// the platform; the auth subsystem only resolves accounts during login and
// token refresh.
package users

import (
	"context"

	"github.com/aleksvarts/classroom-auth/internal/server/models"
)

// Repository resolves user accounts with their roles and permissions.
type Repository interface {
	// FindByEmail returns the user with the given email, including the full
	// role/permission set. Implementations return common.ErrorNotFound when
	// the account is absent.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
