package models

import "time"

// OTP is a single-use numeric code bound to an email address. The used flag
// flips true exactly once, on a successful verification.
type OTP struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
