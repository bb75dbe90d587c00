// Package notifxconsole logs emails instead of sending them.
package notifxconsole

import (
	"context"
	"strings"

	"github.com/Abraxas-365/aiwriter/pkg/logx"
	"github.com/Abraxas-365/aiwriter/pkg/notifx"
)

// ConsoleProvider writes each message to the log. Bodies go to debug level.
type ConsoleProvider struct{}

func NewConsoleProvider() *ConsoleProvider {
	return &ConsoleProvider{}
}

var _ notifx.Sender = (*ConsoleProvider)(nil)

func (p *ConsoleProvider) Send(_ context.Context, msg notifx.Message, opts ...notifx.Option) error {
	so := notifx.ApplyOptions(opts)
	fields := logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	}
	for k, v := range so.Tags {
		fields["tag."+k] = v
	}
	logx.WithFields(fields).Info("📧 notifx/console: email")

	if msg.TextBody != "" {
		logx.Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)
	}
	return nil
}
