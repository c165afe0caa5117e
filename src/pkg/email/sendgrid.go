package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tuumbleweed/xerr"
)

// SendGrid, credentials from SENDGRID_API_KEY.
type sendgridTransport struct {
	client *sendgrid.Client
}

func newSendgridTransport(ctx context.Context) (transport, *xerr.Error) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return nil, xerr.NewError(os.ErrNotExist, "SENDGRID_API_KEY is required", "sendgrid")
	}
	return &sendgridTransport{client: sendgrid.NewSendClient(apiKey)}, nil
}

func (t *sendgridTransport) send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	from := mail.NewEmail("", message.Sender)
	sgMessage := mail.NewV3Mail()
	sgMessage.SetFrom(from)
	sgMessage.Subject = message.Subject

	personalization := mail.NewPersonalization()
	for _, recipient := range message.Recipients {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	sgMessage.AddPersonalizations(personalization)

	if message.Text != "" {
		sgMessage.AddContent(mail.NewContent("text/plain", message.Text))
	}
	if message.HTML != "" {
		sgMessage.AddContent(mail.NewContent("text/html", message.HTML))
	}
	for _, attachment := range message.Attachments {
		sgAttachment := mail.NewAttachment().
			SetContent(base64.StdEncoding.EncodeToString(attachment.Data)).
			SetType(attachment.ContentType).
			SetFilename(attachment.Filename).
			SetDisposition("attachment")
		sgMessage.AddAttachment(sgAttachment)
	}

	response, err := t.client.SendWithContext(ctx, sgMessage)
	if err != nil {
		return "", xerr.NewError(err, "send email with SendGrid", message.Subject)
	}
	if response.StatusCode >= 300 {
		return "", xerr.NewError(fmt.Errorf("status is %d", response.StatusCode), "SendGrid rejected email", response.Body)
	}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
