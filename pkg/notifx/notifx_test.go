package notifx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/aiwriter/pkg/errx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
)

type captureSender struct{ sent []notifx.Message }

func (s *captureSender) Send(_ context.Context, msg notifx.Message, _ ...notifx.Option) error {
	s.sent = append(s.sent, msg)
	return nil
}

func TestClientSendValidates(t *testing.T) {
	ctx := context.Background()
	sender := &captureSender{}
	c := notifx.NewClient(sender, "noreply@example.com")

	err := c.Send(ctx, notifx.Message{Subject: "s", TextBody: "b"})
	assert.True(t, errx.HasCode(err, notifx.CodeInvalidMessage))

	err = c.Send(ctx, notifx.Message{To: []string{"a@example.com"}, TextBody: "b"})
	assert.True(t, errx.HasCode(err, notifx.CodeInvalidMessage))

	err = c.Send(ctx, notifx.Message{To: []string{"a@example.com"}, Subject: "s"})
	assert.True(t, errx.HasCode(err, notifx.CodeInvalidMessage))

	require.NoError(t, c.Send(ctx, notifx.Message{To: []string{"a@example.com"}, Subject: "s", TextBody: "b"}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "noreply@example.com", sender.sent[0].From)
}

func TestSendTemplate(t *testing.T) {
	ctx := context.Background()
	sender := &captureSender{}
	c := notifx.NewClient(sender, "noreply@example.com")

	require.NoError(t, c.RegisterTemplate("done", notifx.Template{
		Subject: "Article {{.Topic}} is ready",
		Text:    "Read it: {{.URL}}",
		HTML:    "<p>{{.Topic}}</p>",
	}))

	data := map[string]string{"Topic": "<Go>", "URL": "http://x"}
	require.NoError(t, c.SendTemplate(ctx, "done", data, []string{"ops@example.com"}))

	msg := sender.sent[0]
	assert.Equal(t, "Article <Go> is ready", msg.Subject)
	assert.Equal(t, "Read it: http://x", msg.TextBody)
	assert.Equal(t, "<p>&lt;Go&gt;</p>", msg.HTMLBody)
	assert.Equal(t, []string{"ops@example.com"}, msg.To)

	err := c.SendTemplate(ctx, "missing", nil, []string{"ops@example.com"})
	assert.True(t, errx.HasCode(err, notifx.CodeTemplateNotFound))

	err = c.RegisterTemplate("bad", notifx.Template{Subject: "{{.Oops"})
	assert.True(t, errx.HasCode(err, notifx.CodeTemplateParse))
}
