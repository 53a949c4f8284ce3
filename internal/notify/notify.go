// Package notify delivers rendered reports to recipients over email and
// SMS, isolating per-recipient failures.
package notify

import "context"

// EmailSender delivers a single email. Implementations return an error
// for provider-level rejections; the fan-out treats it as one failed
// recipient, never as a run failure.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a single SMS message
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}
