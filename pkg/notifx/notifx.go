// Package notifx sends email notifications through a pluggable provider and
// renders them from named templates.
package notifx

import (
	"context"
	"strings"
)

// Message is one email.
type Message struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

// Sender delivers a message. Implementations live in subpackages.
type Sender interface {
	Send(ctx context.Context, msg Message, opts ...Option) error
}

// NopSender drops every message.
type NopSender struct{}

func (NopSender) Send(context.Context, Message, ...Option) error { return nil }

// Client validates messages, fills the sender address and renders templates.
type Client struct {
	provider  Sender
	from      string
	templates *Templates
}

func NewClient(provider Sender, from string) *Client {
	return &Client{
		provider:  provider,
		from:      from,
		templates: NewTemplates(),
	}
}

func (c *Client) Send(ctx context.Context, msg Message, opts ...Option) error {
	if msg.From == "" {
		msg.From = c.from
	}
	if len(msg.To) == 0 {
		return ErrInvalidMessage("no recipients")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return ErrInvalidMessage("empty subject")
	}
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return ErrInvalidMessage("empty body")
	}
	return c.provider.Send(ctx, msg, opts...)
}

// RegisterTemplate stores a named template for SendTemplate.
func (c *Client) RegisterTemplate(name string, tmpl Template) error {
	return c.templates.Register(name, tmpl)
}

// SendTemplate renders the named template with data and sends it to to.
func (c *Client) SendTemplate(ctx context.Context, name string, data any, to []string, opts ...Option) error {
	msg, err := c.templates.Render(name, data)
	if err != nil {
		return err
	}
	msg.To = to
	return c.Send(ctx, msg, opts...)
}
