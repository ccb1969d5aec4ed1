// Package email adapts the external email-dispatch collaborator. Message
// bodies are owned by provider-side templates; this package only hands over
// a template identifier and its substitution arguments.
package email

import "context"

// DispatchResult is the outcome reported by the mail provider.
type DispatchResult struct {
	Success bool
	Subject string
}

// Dispatcher sends a templated message to a single recipient.
type Dispatcher interface {
	Send(ctx context.Context, toEmail, template string, args ...string) (*DispatchResult, error)
}
