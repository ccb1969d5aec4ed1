package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aleksvarts/classroom-auth/internal/logging"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/otps"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/revokedtokens"
)

// Sweeper periodically deletes revocation entries and OTP rows whose expiry
// has passed. A revocation past its token's expiry is dead weight: the
// deadline check already rejects that token.
type Sweeper struct {
	cron     *cron.Cron
	revoked  revokedtokens.Repository
	otps     otps.Repository
	logger   logging.Logger
	interval time.Duration
	now      func() time.Time
}

// NewSweeper constructs a Sweeper running every interval.
func NewSweeper(revoked revokedtokens.Repository, otpRepo otps.Repository, l logging.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		revoked:  revoked,
		otps:     otpRepo,
		logger:   l.With("module", "sweeper"),
		interval: interval,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Start schedules the sweep and returns immediately.
func (s *Sweeper) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.Sweep); err != nil {
		return fmt.Errorf("scheduling sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop cancels the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep runs one pass. Exported so it can be triggered on demand.
func (s *Sweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := s.now()

	if n, err := s.revoked.DeleteExpired(ctx, now); err != nil {
		s.logger.Error(ctx, "sweeping revoked tokens", "error", err)
	} else if n > 0 {
		s.logger.Info(ctx, "swept revoked tokens", "deleted", n)
	}

	if n, err := s.otps.DeleteExpired(ctx, now); err != nil {
		s.logger.Error(ctx, "sweeping otps", "error", err)
	} else if n > 0 {
		s.logger.Info(ctx, "swept otps", "deleted", n)
	}
}
