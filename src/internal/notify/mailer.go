package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/paylio-ledger/src/internal/domain"
	"github.com/api-sage/paylio-ledger/src/internal/logger"
	"github.com/resend/resend-go/v2"
)

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(client *resend.Client, from string) *ResendMailer {
	return &ResendMailer{client: client, from: from}
}

func (m *ResendMailer) SendMessage(ctx context.Context, recipients []string, subject string, body string) error {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("resend send email: %w", err)
	}

	logger.Info("notify email sent", logger.Fields{
		"emailId":    sent.Id,
		"subject":    subject,
		"recipients": len(recipients),
	})
	return nil
}

// LogMailer stands in when no e-mail provider is configured.
type LogMailer struct{}

func (LogMailer) SendMessage(_ context.Context, recipients []string, subject string, _ string) error {
	logger.Info("notify email not sent, no provider configured", logger.Fields{
		"subject":    subject,
		"recipients": strings.Join(recipients, ","),
	})
	return nil
}

// LogNotifier stands in when no realtime channel is configured.
type LogNotifier struct{}

func (LogNotifier) Publish(_ context.Context, n domain.Notification) error {
	logger.Info("notify realtime channel not configured", logger.Fields{
		"notificationId": n.ID,
		"userId":         n.UserID,
		"type":           n.Type,
	})
	return nil
}
