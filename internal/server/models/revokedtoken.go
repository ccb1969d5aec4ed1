package models

import "time"

// RevokedToken is a blacklist entry for a token identifier (jti). The
// original expiry is kept so entries past it can be swept without ever
// distinguishing "valid" from "expired and forgotten".
type RevokedToken struct {
	JTI       string
	ExpiresAt time.Time
	CreatedAt time.Time
}
