package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

const sendTimeout = 60 * time.Second

type transport interface {
	send(ctx context.Context, message Message) (messageID string, e *xerr.Error)
}

// transports builds a provider client from the environment; replaced in tests.
var transports = map[Provider]func(ctx context.Context) (transport, *xerr.Error){
	ProviderSES:      newSESTransport,
	ProviderMailgun:  newMailgunTransport,
	ProviderSendgrid: newSendgridTransport,
}

/*
SendMessage delivers one message through the chosen provider.

When sendEmails is nil or false the message is only logged, which is how
the programs do dry runs.
*/
func SendMessage(
	provider Provider, sendEmails *bool,
	sender string, recipients []string, subject string, text string, html string,
	attachments []Attachment,
) (e *xerr.Error) {
	subject = subjectLineBreaks.Replace(subject)
	message := Message{
		Sender:      strings.TrimSpace(sender),
		Recipients:  cleanRecipients(recipients),
		Subject:     subject,
		Text:        text,
		HTML:        html,
		Attachments: attachments,
	}
	if len(message.Recipients) == 0 {
		return xerr.NewError(fmt.Errorf("no recipients"), "send email", subject)
	}
	if e = message.checkAddresses(); e != nil {
		return e
	}

	if sendEmails == nil || !*sendEmails {
		tl.Log(
			tl.Notice, palette.PurpleBold, "Dry run: %s '%s' to %s with %s attachments via %s",
			"not sending", subject, strings.Join(message.Recipients, ", "), len(attachments), provider,
		)
		return nil
	}

	newTransport, ok := transports[provider]
	if !ok {
		return xerr.NewError(fmt.Errorf("unknown provider %q", provider), "pick email provider", provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	client, e := newTransport(ctx)
	if e != nil {
		return e
	}
	messageID, e := client.send(ctx, message)
	if e != nil {
		return e
	}

	tl.Log(
		tl.Info1, palette.Green, "Sent '%s' to %s via %s (id '%s')",
		subject, strings.Join(message.Recipients, ", "), provider, messageID,
	)
	return nil
}

var subjectLineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func cleanRecipients(recipients []string) (cleaned []string) {
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient != "" {
			cleaned = append(cleaned, recipient)
		}
	}
	return cleaned
}
