package notifx

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	"sync"
	texttemplate "text/template"
)

// Template is the source of one email. Subject and Text are plain text
// templates, HTML is escaped as HTML. Empty bodies are skipped.
type Template struct {
	Subject string
	Text    string
	HTML    string
}

type compiled struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

// Templates is a concurrency safe set of named templates.
type Templates struct {
	mu    sync.RWMutex
	items map[string]compiled
}

func NewTemplates() *Templates {
	return &Templates{items: make(map[string]compiled)}
}

func (t *Templates) Register(name string, src Template) error {
	var c compiled
	var err error

	parseFail := func(part string, err error) error {
		return ErrRegistry.NewWithCause(CodeTemplateParse, err).
			WithDetail("template", name).
			WithDetail("part", part)
	}

	if c.subject, err = texttemplate.New(name + ".subject").Parse(src.Subject); err != nil {
		return parseFail("subject", err)
	}
	if src.Text != "" {
		if c.text, err = texttemplate.New(name + ".text").Parse(src.Text); err != nil {
			return parseFail("text", err)
		}
	}
	if src.HTML != "" {
		if c.html, err = htmltemplate.New(name + ".html").Parse(src.HTML); err != nil {
			return parseFail("html", err)
		}
	}

	t.mu.Lock()
	t.items[name] = c
	t.mu.Unlock()
	return nil
}

// Render executes the named template into a message without recipients.
func (t *Templates) Render(name string, data any) (Message, error) {
	t.mu.RLock()
	c, ok := t.items[name]
	t.mu.RUnlock()
	if !ok {
		return Message{}, ErrRegistry.New(CodeTemplateNotFound).WithDetail("template", name)
	}

	renderFail := func(part string, err error) error {
		return ErrRegistry.NewWithCause(CodeTemplateRender, err).
			WithDetail("template", name).
			WithDetail("part", part)
	}

	var msg Message
	var buf bytes.Buffer

	if err := c.subject.Execute(&buf, data); err != nil {
		return Message{}, renderFail("subject", err)
	}
	msg.Subject = strings.TrimSpace(buf.String())

	if c.text != nil {
		buf.Reset()
		if err := c.text.Execute(&buf, data); err != nil {
			return Message{}, renderFail("text", err)
		}
		msg.TextBody = buf.String()
	}
	if c.html != nil {
		buf.Reset()
		if err := c.html.Execute(&buf, data); err != nil {
			return Message{}, renderFail("html", err)
		}
		msg.HTMLBody = buf.String()
	}
	return msg, nil
}
