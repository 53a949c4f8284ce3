package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeEmailSender) SendEmail(_ context.Context, to, _, _ string) error {
	if f.failFor[to] {
		return errors.New("provider rejected message")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeSMSSender struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeSMSSender) SendSMS(_ context.Context, to, _ string) error {
	if f.failFor[to] {
		return errors.New("provider rejected message")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestDeliverIsolatesFailures(t *testing.T) {
	email := &fakeEmailSender{failFor: map[string]bool{"bad@example.com": true}}
	sms := &fakeSMSSender{failFor: map[string]bool{"+15550002": true}}

	fanout := NewFanout(email, sms)

	report, err := fanout.Deliver(context.Background(), "digest", "summary",
		[]string{"a@example.com", "bad@example.com", "c@example.com"},
		[]string{"+15550001", "+15550002", "+15550003"},
	)
	require.NoError(t, err)

	// one failing recipient never blocks the rest
	assert.Equal(t, 2, report.EmailsSent)
	assert.Equal(t, 1, report.EmailFailed)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, email.sent)

	assert.Equal(t, 2, report.SMSSent)
	assert.Equal(t, 1, report.SMSFailed)

	// sent + failures accounts for every recipient
	assert.Equal(t, 3, report.EmailsSent+report.EmailFailed)
	assert.Equal(t, 3, report.SMSSent+report.SMSFailed)
}

func TestDeliverInvalidEmailCountsAsFailure(t *testing.T) {
	email := &fakeEmailSender{}
	fanout := NewFanout(email, &fakeSMSSender{})

	report, err := fanout.Deliver(context.Background(), "digest", "summary",
		[]string{"not-an-address", "ok@example.com"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.EmailsSent)
	assert.Equal(t, 1, report.EmailFailed)
	assert.Equal(t, []string{"ok@example.com"}, email.sent)
}

func TestDeliverUnconfiguredChannel(t *testing.T) {
	fanout := NewFanout(nil, &fakeSMSSender{})

	_, err := fanout.Deliver(context.Background(), "digest", "summary",
		[]string{"a@example.com"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChannelUnavailable)

	// no email recipients means the missing channel does not matter
	report, err := fanout.Deliver(context.Background(), "digest", "summary",
		nil, []string{"+15550001"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SMSSent)
}

func TestDeliverEmptyRecipients(t *testing.T) {
	fanout := NewFanout(&fakeEmailSender{}, &fakeSMSSender{})

	report, err := fanout.Deliver(context.Background(), "digest", "summary", nil, nil)
	require.NoError(t, err)
	assert.Zero(t, report.EmailsSent)
	assert.Zero(t, report.SMSSent)
}
