// Package services contains the server-side business logic: credential
// authentication, token refresh and logout, and one-time code management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/logging"
	"github.com/aleksvarts/classroom-auth/internal/server/auth"
	"github.com/aleksvarts/classroom-auth/internal/server/config"
	"github.com/aleksvarts/classroom-auth/internal/server/models"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/repomanager"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/revokedtokens"
)

// AuthService handles the token lifecycle:
// - Login: verify credentials and mint a token
// - Refresh: rotate a refresh-eligible token, revoking the old one
// - Logout: revoke a token, never surfacing an error
// - Validate/Introspect: decide token validity
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	revoked       revokedtokens.Repository
	codec         *auth.Codec
	validator     *auth.Validator
	logger        logging.Logger
	validity      time.Duration
	refreshWindow time.Duration
	now           func() time.Time
}

// NewAuthService constructs an AuthService. The revocation store is passed
// separately from the repository manager because it may be redis-backed.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, revoked revokedtokens.Repository, codec *auth.Codec, l logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repos:         repos,
		revoked:       revoked,
		codec:         codec,
		validator:     auth.NewValidator(codec, revoked, cfg.RefreshableDuration),
		logger:        l.With("module", "auth_service"),
		validity:      cfg.AccessTokenValidityDuration,
		refreshWindow: cfg.RefreshableDuration,
		now:           time.Now,
	}
}

// WithClock overrides the time source for the service and its validator.
// Tests use this to pin "now"; all time comparisons in one operation then
// come from the same instant.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	s.validator.WithClock(now)
	return s
}

// Login verifies the email/password pair and mints a token. The status check
// runs before the hash comparison: a pending or suspended account fails
// without burning a bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repos.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if !user.IsActive() {
		return "", common.ErrUserNotActive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrWrongPassword
	}

	return s.mintToken(user)
}

// Refresh validates oldToken in refresh-eligible mode, revokes it, and mints
// a replacement. The scope is rebuilt from the user's current roles, so
// privilege changes since issuance take effect on rotation.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (string, error) {
	claims, err := s.validator.Validate(ctx, oldToken, auth.ModeRefreshEligible)
	if err != nil {
		return "", err
	}

	// the account may have been deleted since issuance
	user, err := s.repos.Users(s.db).FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if err := s.revoked.Save(ctx, claims.ID, s.revocationHorizon(claims)); err != nil {
		return "", fmt.Errorf("error revoking token: %w", err)
	}

	return s.mintToken(user)
}

// Logout revokes the token. It deliberately returns nothing: a client
// presenting an expired, revoked, or garbage token must not see an error,
// and the signature makes that contract visible.
func (s *AuthService) Logout(ctx context.Context, token string) {
	claims, err := s.validator.Validate(ctx, token, auth.ModeRefreshEligible)
	if err != nil {
		return
	}

	if err := s.revoked.Save(ctx, claims.ID, s.revocationHorizon(claims)); err != nil {
		s.logger.Error(ctx, "error saving revocation on logout", "error", err)
	}
}

// revocationHorizon returns the last instant the token could still validate
// in any mode: the later of its own expiry and the end of its refresh
// window. Storing the revocation with this timestamp keeps the record alive
// (redis TTL, sweep) until the token is dead on its own.
func (s *AuthService) revocationHorizon(claims *auth.Claims) time.Time {
	horizon := claims.IssuedAt.Add(s.refreshWindow)
	if claims.ExpiresAt.After(horizon) {
		horizon = claims.ExpiresAt.Time
	}
	return horizon
}

// Validate checks the token under the given mode and returns its claims.
func (s *AuthService) Validate(ctx context.Context, token string, mode auth.Mode) (*auth.Claims, error) {
	return s.validator.Validate(ctx, token, mode)
}

// Introspect collapses standard-mode validation to a boolean.
func (s *AuthService) Introspect(ctx context.Context, token string) bool {
	return s.validator.Introspect(ctx, token)
}

// Validator exposes the underlying validator for transport middleware.
func (s *AuthService) Validator() *auth.Validator {
	return s.validator
}

func (s *AuthService) mintToken(user *models.User) (string, error) {
	scope := auth.BuildScope(user.Roles)
	claims := auth.NewClaims(user.Email, scope, s.now(), s.validity)

	token, err := s.codec.Encode(claims)
	if err != nil {
		// a signing failure is a configuration bug, not a user condition
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return token, nil
}
