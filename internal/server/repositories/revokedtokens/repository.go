// Package revokedtokens implements the token revocation store: an
// append-only set of token identifiers that must be rejected regardless of
// signature and expiry.
package revokedtokens

import (
	"context"
	"time"
)

// Repository is the revocation persistence contract.
type Repository interface {
	// Save records a jti with the token's original expiry. Saving the same
	// jti twice is not an error; the record's presence is what matters.
	Save(ctx context.Context, jti string, expiresAt time.Time) error

	// Contains reports whether a jti has been revoked.
	Contains(ctx context.Context, jti string) (bool, error)

	// DeleteExpired removes entries whose original expiry is before now and
	// returns how many were removed. An entry past its expiry no longer needs
	// to be remembered: the token it blocks is rejected by the deadline check
	// anyway.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
