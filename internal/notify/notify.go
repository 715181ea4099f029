// Package notify sends out-of-band notifications about new contact messages.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/resendlabs/resend-go"
	"github.com/softysite/internal/db"
)

// Noop discards every notification.
type Noop struct{}

// ContactReceived implements service.ContactNotifier.
func (Noop) ContactReceived(context.Context, db.ContactMessage) error {
	return nil
}

// ResendNotifier e-mails the site owner through Resend.
type ResendNotifier struct {
	send func(*resend.SendEmailRequest) error
	from string
	to   []string
}

// NewResendNotifier builds a notifier from an API key and addresses.
func NewResendNotifier(apiKey, from, to string) (*ResendNotifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("resend api key is required")
	}

	recipients := splitAddresses(to)
	if len(recipients) == 0 {
		return nil, fmt.Errorf("notification recipient is required")
	}

	client := resend.NewClient(apiKey)
	send := func(req *resend.SendEmailRequest) error {
		_, err := client.Emails.Send(req)
		return err
	}
	return &ResendNotifier{send: send, from: from, to: recipients}, nil
}

// ContactReceived sends one e-mail describing msg.
func (n *ResendNotifier) ContactReceived(ctx context.Context, msg db.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	request := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("New contact message from %s", msg.Name),
		Html:    contactEmailHTML(msg),
		Text:    contactEmailText(msg),
	}

	if err := n.send(request); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}

func contactEmailHTML(msg db.ContactMessage) string {
	var b strings.Builder
	b.WriteString("<h2>New contact message</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(msg.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(msg.Email))
	fmt.Fprintf(&b, "<p><strong>Received:</strong> %s</p>", msg.CreatedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "<p style=\"white-space:pre-wrap\">%s</p>", html.EscapeString(msg.Message))
	return b.String()
}

func contactEmailText(msg db.ContactMessage) string {
	return fmt.Sprintf("New contact message\n\nName: %s\nEmail: %s\nReceived: %s\n\n%s\n",
		msg.Name, msg.Email, msg.CreatedAt.Format(time.RFC1123), msg.Message)
}

func splitAddresses(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
