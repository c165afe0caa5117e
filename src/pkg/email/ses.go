package email

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tuumbleweed/xerr"
)

// Amazon SES v2, credentials from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_REGION.
type sesTransport struct {
	client *sesv2.Client
}

func newSESTransport(ctx context.Context) (transport, *xerr.Error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, xerr.NewError(err, "load AWS config", "ses")
	}
	return &sesTransport{client: sesv2.NewFromConfig(cfg)}, nil
}

func (t *sesTransport) send(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	raw, e := message.rawMIME()
	if e != nil {
		return "", e
	}

	output, err := t.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(message.Sender),
		Destination:      &types.Destination{ToAddresses: message.Recipients},
		Content:          &types.EmailContent{Raw: &types.RawMessage{Data: raw}},
	})
	if err != nil {
		return "", xerr.NewError(err, "send email with SES", message.Subject)
	}
	return aws.ToString(output.MessageId), nil
}
