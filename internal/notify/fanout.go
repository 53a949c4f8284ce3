package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mcnijman/go-emailaddress"

	"github.com/fieldcrew/statsync/internal/domain"
)

// ErrChannelUnavailable means a channel has recipients but no configured
// transport; this is the only delivery condition surfaced as an error
var ErrChannelUnavailable = errors.New("delivery channel not configured")

// DigestSubject is the subject line for digest emails
const DigestSubject = "Field team performance report"

// Fanout sends the detailed digest to email recipients and the terse
// summary to SMS recipients. Each recipient is attempted independently;
// one failure never blocks the rest or the other channel.
type Fanout struct {
	email EmailSender
	sms   SMSSender
}

// NewFanout creates a new Fanout. Either sender may be nil when the
// channel is not configured.
func NewFanout(email EmailSender, sms SMSSender) *Fanout {
	return &Fanout{email: email, sms: sms}
}

// Deliver fans the rendered representations out to both recipient lists
// and returns per-channel counts. Partial failure is reported in the
// counts, not as an error.
func (f *Fanout) Deliver(ctx context.Context, digest, summary string, emailRecipients, smsRecipients []string) (*domain.DeliveryReport, error) {
	if len(emailRecipients) > 0 && f.email == nil {
		return nil, fmt.Errorf("email: %w", ErrChannelUnavailable)
	}
	if len(smsRecipients) > 0 && f.sms == nil {
		return nil, fmt.Errorf("sms: %w", ErrChannelUnavailable)
	}

	report := &domain.DeliveryReport{}

	for _, to := range emailRecipients {
		if _, err := emailaddress.Parse(to); err != nil {
			log.Printf("warning: skipping invalid email recipient %q: %v", to, err)
			report.EmailFailed++
			continue
		}

		if err := f.email.SendEmail(ctx, to, DigestSubject, digest); err != nil {
			log.Printf("warning: failed to email report to %s: %v", to, err)
			report.EmailFailed++
			continue
		}

		report.EmailsSent++
	}

	for _, to := range smsRecipients {
		if err := f.sms.SendSMS(ctx, to, summary); err != nil {
			log.Printf("warning: failed to send report sms to %s: %v", to, err)
			report.SMSFailed++
			continue
		}

		report.SMSSent++
	}

	return report, nil
}
