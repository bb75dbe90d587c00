// Package notifxses delivers email through Amazon SES.
package notifxses

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Abraxas-365/aiwriter/pkg/notifx"
)

const charset = "UTF-8"

// API is the subset of the SES client used here.
type API interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider implements notifx.Sender.
type SESProvider struct {
	client API
}

func NewSESProvider(client API) *SESProvider {
	return &SESProvider{client: client}
}

var _ notifx.Sender = (*SESProvider)(nil)

func content(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String(charset)}
}

// BuildInput maps a message to an SES request.
func BuildInput(msg notifx.Message, opts ...notifx.Option) *ses.SendEmailInput {
	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = content(msg.TextBody)
	}
	if msg.HTMLBody != "" {
		body.Html = content(msg.HTMLBody)
	}

	in := &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: content(msg.Subject),
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		in.ReplyToAddresses = []string{msg.ReplyTo}
	}

	so := notifx.ApplyOptions(opts)
	if so.ConfigurationSet != "" {
		in.ConfigurationSetName = aws.String(so.ConfigurationSet)
	}
	keys := make([]string, 0, len(so.Tags))
	for k := range so.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		in.Tags = append(in.Tags, types.MessageTag{Name: aws.String(k), Value: aws.String(so.Tags[k])})
	}
	return in
}

func (p *SESProvider) Send(ctx context.Context, msg notifx.Message, opts ...notifx.Option) error {
	if _, err := p.client.SendEmail(ctx, BuildInput(msg, opts...)); err != nil {
		return notifx.ErrSendFailed("ses", err).
			WithDetail("to", msg.To).
			WithDetail("subject", msg.Subject)
	}
	return nil
}
