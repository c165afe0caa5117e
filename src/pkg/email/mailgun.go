package email

import (
	"context"
	"os"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/tuumbleweed/xerr"
)

// Mailgun, credentials from MAILGUN_DOMAIN / MAILGUN_API_KEY.
type mailgunTransport struct {
	client *mailgun.MailgunImpl
}

func newMailgunTransport(ctx context.Context) (transport, *xerr.Error) {
	domain := os.Getenv("MAILGUN_DOMAIN")
	apiKey := os.Getenv("MAILGUN_API_KEY")
	if domain == "" || apiKey == "" {
		return nil, xerr.NewError(os.ErrNotExist, "MAILGUN_DOMAIN and MAILGUN_API_KEY are required", "mailgun")
	}
	return &mailgunTransport{client: mailgun.NewMailgun(domain, apiKey)}, nil
}

func (t *mailgunTransport) send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	mgMessage := t.client.NewMessage(message.Sender, message.Subject, message.Text, message.Recipients...)
	if message.HTML != "" {
		mgMessage.SetHtml(message.HTML)
	}
	for _, attachment := range message.Attachments {
		mgMessage.AddBufferAttachment(attachment.Filename, attachment.Data)
	}

	_, id, err := t.client.Send(ctx, mgMessage)
	if err != nil {
		return "", xerr.NewError(err, "send email with Mailgun", message.Subject)
	}
	return id, nil
}
