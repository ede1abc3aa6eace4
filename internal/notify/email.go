package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier delivers alerts to the configured operator address via Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
}

func NewEmailNotifier(apiKey, from, to string) *EmailNotifier {
	return &EmailNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, subject, message string) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Html: fmt.Sprintf(
			`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;"><p>%s</p></div>`,
			strings.ReplaceAll(message, "\n", "<br>"),
		),
	}
	if _, err := n.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}
