// Package auth implements the token layer: a signed-claims codec (HS512),
// the scope builder, and the two-window token validator.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aleksvarts/classroom-auth/internal/common"
)

// MinKeyLength is the minimum accepted HMAC key size for HS512: the SHA-512
// output size, per RFC 2104. A shorter key is a deployment bug, not a
// runtime condition, so the codec refuses to construct.
const MinKeyLength = 64

// Claims is the payload carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// NewClaims mints a fresh claim set: random jti, issuedAt as given, expiry
// at issuedAt+validity.
func NewClaims(subject, scope string, issuedAt time.Time, validity time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
		Scope: scope,
	}
}

// Codec signs and verifies claim sets with a shared symmetric key.
type Codec struct {
	secretKey []byte
}

// NewCodec builds a Codec, rejecting keys shorter than MinKeyLength.
func NewCodec(secretKey []byte) (*Codec, error) {
	if len(secretKey) < MinKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes, got %d", MinKeyLength, len(secretKey))
	}
	return &Codec{secretKey: secretKey}, nil
}

// Encode serializes the claims into a compact signed token.
func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies the signature and returns the embedded claims. Temporal
// checks are deliberately not applied here: which deadline applies depends on
// the validation mode, so they belong to the Validator. Every failure maps to
// the same generic authentication error.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, common.ErrAuthentication
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil || claims.ID == "" {
		return nil, common.ErrAuthentication
	}

	return claims, nil
}
