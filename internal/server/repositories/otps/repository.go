// Package otps provides persistence for single-use one-time codes.
package otps

import (
	"context"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/server/models"
)

// Repository is the OTP persistence contract.
type Repository interface {
	// Save inserts a new code record and fills in its generated ID.
	Save(ctx context.Context, otp *models.OTP) error

	// FindLatestByEmail returns the record with the highest expiry for the
	// email, or common.ErrorNotFound. Verification always targets the most
	// recently issued code; older ones are dead once a newer one exists.
	FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error)

	// MarkUsed flips the used flag, but only if it is still false. The
	// returned bool reports whether this call won the flip; a false return
	// means another caller redeemed the code first.
	MarkUsed(ctx context.Context, id int64) (bool, error)

	// DeleteExpired removes records past their expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
