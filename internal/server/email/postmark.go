package email

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
)

// PostmarkDispatcher sends templated mail through Postmark's transactional
// API. Substitution arguments are exposed to the template as arg1..argN.
type PostmarkDispatcher struct {
	client      *postmark.Client
	senderEmail string
}

// NewPostmarkDispatcher builds a Postmark-backed dispatcher. Tokens are
// required: a half-configured mailer should fail at startup, not at the
// first registration.
func NewPostmarkDispatcher(serverToken, accountToken, senderEmail string) (*PostmarkDispatcher, error) {
	if serverToken == "" || accountToken == "" {
		return nil, fmt.Errorf("postmark tokens are required")
	}
	if senderEmail == "" {
		return nil, fmt.Errorf("sender email is required")
	}
	return &PostmarkDispatcher{
		client:      postmark.NewClient(serverToken, accountToken),
		senderEmail: senderEmail,
	}, nil
}

// Send dispatches the template to the recipient.
func (d *PostmarkDispatcher) Send(ctx context.Context, toEmail, template string, args ...string) (*DispatchResult, error) {
	model := map[string]any{}
	for i, arg := range args {
		model[fmt.Sprintf("arg%d", i+1)] = arg
	}

	resp, err := d.client.SendTemplatedEmail(ctx, postmark.TemplatedEmail{
		TemplateAlias: template,
		TemplateModel: model,
		From:          d.senderEmail,
		To:            toEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("sending email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return &DispatchResult{Success: false, Subject: template},
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}

	return &DispatchResult{Success: true, Subject: template}, nil
}
