package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/logging"
	"github.com/aleksvarts/classroom-auth/internal/server/config"
	"github.com/aleksvarts/classroom-auth/internal/server/email"
	"github.com/aleksvarts/classroom-auth/internal/server/models"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/repomanager"
)

// OTPService issues and redeems single-use one-time codes for email
// verification. Codes are dispatched through the external email collaborator.
type OTPService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	dispatcher email.Dispatcher
	logger     logging.Logger
	codeLength int
	validity   time.Duration
	now        func() time.Time
}

// NewOTPService constructs an OTPService.
func NewOTPService(db *sql.DB, repos repomanager.RepositoryManager, dispatcher email.Dispatcher, l logging.Logger, cfg *config.Config) *OTPService {
	return &OTPService{
		db:         db,
		repos:      repos,
		dispatcher: dispatcher,
		logger:     l.With("module", "otp_service"),
		codeLength: cfg.OTPCodeLength,
		validity:   cfg.OTPValidityDuration,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (s *OTPService) WithClock(now func() time.Time) *OTPService {
	s.now = now
	return s
}

// GenerateAndSend creates a fresh code, persists it, and dispatches it with
// the code appended as the final substitution argument. The newly persisted
// record has the highest expiry for the address, so it supersedes any code
// issued earlier.
func (s *OTPService) GenerateAndSend(ctx context.Context, toEmail, template string, args ...string) (*email.DispatchResult, error) {
	code, err := common.MakeRandDigitString(s.codeLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	otp := &models.OTP{
		Email:     toEmail,
		Code:      code,
		ExpiresAt: s.now().Add(s.validity),
	}
	if err := s.repos.OTPs(s.db).Save(ctx, otp); err != nil {
		return nil, fmt.Errorf("error saving otp: %w", err)
	}

	result, err := s.dispatcher.Send(ctx, toEmail, template, append(args, code)...)
	if err != nil {
		return nil, fmt.Errorf("error dispatching otp: %w", err)
	}

	return result, nil
}

// Verify redeems a code. Only the most recently issued record for the email
// counts; stale codes never validate once a newer one exists. The used-flag
// flip is a compare-and-swap in the repository, so two concurrent calls with
// the correct code cannot both succeed.
func (s *OTPService) Verify(ctx context.Context, toEmail, candidateCode string) (string, error) {
	repo := s.repos.OTPs(s.db)

	otp, err := repo.FindLatestByEmail(ctx, toEmail)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrOTPNotFound
		}
		return "", fmt.Errorf("error searching otp: %w", err)
	}

	if otp.Used {
		return "", common.ErrOTPAlreadyUsed
	}
	if s.now().After(otp.ExpiresAt) {
		return "", common.ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(candidateCode)) != 1 {
		return "", common.ErrOTPInvalid
	}

	won, err := repo.MarkUsed(ctx, otp.ID)
	if err != nil {
		return "", fmt.Errorf("error redeeming otp: %w", err)
	}
	if !won {
		// another caller flipped the flag between our read and the swap
		return "", common.ErrOTPAlreadyUsed
	}

	return otp.Email, nil
}
