package email

import (
	"context"

	"github.com/aleksvarts/classroom-auth/internal/logging"
)

// DevDispatcher logs messages instead of sending them. Used in local
// development where no mail provider is configured.
type DevDispatcher struct {
	logger logging.Logger
}

// NewDevDispatcher builds a logging-only dispatcher.
func NewDevDispatcher(l logging.Logger) *DevDispatcher {
	return &DevDispatcher{logger: l.With("module", "email_dev")}
}

// Send logs the would-be dispatch and reports success.
func (d *DevDispatcher) Send(ctx context.Context, toEmail, template string, args ...string) (*DispatchResult, error) {
	d.logger.Info(ctx, "email dispatch (dev)", "to", toEmail, "template", template, "args", args)
	return &DispatchResult{Success: true, Subject: template}, nil
}
