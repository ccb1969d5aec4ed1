package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/common"
)

// Mode selects which validity window applies during validation.
type Mode int

const (
	// ModeStandard checks the token against its own expiry claim.
	ModeStandard Mode = iota

	// ModeRefreshEligible checks the token against the longer window anchored
	// to its issue time, allowing an expired token to be exchanged for a new
	// one.
	ModeRefreshEligible
)

// RevocationChecker reports whether a token identifier has been revoked.
type RevocationChecker interface {
	Contains(ctx context.Context, jti string) (bool, error)
}

// Validator decides token validity: signature, mode-dependent deadline,
// revocation. All rejection paths collapse into the same generic
// authentication error so callers cannot tell which check failed.
type Validator struct {
	codec         *Codec
	revoked       RevocationChecker
	refreshWindow time.Duration
	now           func() time.Time
}

// NewValidator constructs a Validator. refreshWindow must be configured
// strictly larger than the standard token validity (enforced by config
// validation at startup).
func NewValidator(codec *Codec, revoked RevocationChecker, refreshWindow time.Duration) *Validator {
	return &Validator{
		codec:         codec,
		revoked:       revoked,
		refreshWindow: refreshWindow,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate decodes the token and applies the deadline for the given mode,
// then the revocation check. The revocation check runs in both modes;
// skipping it would let a revoked-but-unexpired token keep validating,
// making logout and refresh rotation ineffective.
func (v *Validator) Validate(ctx context.Context, tokenString string, mode Mode) (*Claims, error) {
	claims, err := v.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	deadline := claims.ExpiresAt.Time
	if mode == ModeRefreshEligible {
		deadline = claims.IssuedAt.Add(v.refreshWindow)
	}
	if v.now().After(deadline) {
		return nil, common.ErrAuthentication
	}

	revoked, err := v.revoked.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrAuthentication
	}

	return claims, nil
}

// Introspect collapses validation in standard mode to a boolean.
func (v *Validator) Introspect(ctx context.Context, tokenString string) bool {
	_, err := v.Validate(ctx, tokenString, ModeStandard)
	return err == nil
}
