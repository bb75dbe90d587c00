package notifxses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx/notifxses"
)

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestBuildInput(t *testing.T) {
	in := notifxses.BuildInput(notifx.Message{
		From:     "from@example.com",
		To:       []string{"to@example.com"},
		Subject:  "Hi",
		TextBody: "plain",
	}, notifx.WithTags(map[string]string{"status": "completed", "article": "a1"}), notifx.WithConfigurationSet("cs"))

	assert.Equal(t, "from@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"to@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(in.Message.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(in.Message.Body.Text.Data))
	assert.Nil(t, in.Message.Body.Html)
	assert.Equal(t, "cs", aws.ToString(in.ConfigurationSetName))
	require.Len(t, in.Tags, 2)
	assert.Equal(t, "article", aws.ToString(in.Tags[0].Name))
}

func TestSendWrapsFailure(t *testing.T) {
	api := &fakeSES{err: errors.New("throttled")}
	p := notifxses.NewSESProvider(api)

	err := p.Send(context.Background(), notifx.Message{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"})
	assert.True(t, errx.HasCode(err, notifx.CodeSendFailed))
	assert.NotNil(t, api.in)
}
