// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers transactional email (verification and password reset links).

Two senders are provided:

  - [SMTPSender]: gomail dialer against the configured SMTP relay.
  - [LogSender]: writes the message to the structured log; used when no SMTP
    host is configured (local development).

Templates are compiled once at startup with html/template so account names are
escaped before they reach the body.
*/
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// # Templates

// Template names a message layout.
type Template string

const (
	TemplateEmailVerification Template = "emailVerification"
	TemplateForgotPassword    Template = "forgotPassword"
)

// ReplyTo is the address given to recipients who answer automated mail.
const ReplyTo = "noreply@noreply.com"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	Template Template
	Name     string
	Link     string
}

// Sender delivers messages.
type Sender interface {
	Send(context context.Context, message Message) error
}

// Render executes the message template into an HTML body.
func Render(message Message) (string, error) {
	var body bytes.Buffer
	err := templates.ExecuteTemplate(&body, string(message.Template)+".html", map[string]string{
		"Name": message.Name,
		"Link": message.Link,
	})
	if err != nil {
		return "", fmt.Errorf("mail: failed to render %s: %w", message.Template, err)
	}
	return body.String(), nil
}

// # SMTP

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender for the given relay.
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send renders and delivers message. gomail has no context support, so
// cancellation is only observed before dialing.
func (sender *SMTPSender) Send(context context.Context, message Message) error {
	if err := context.Err(); err != nil {
		return err
	}

	body, err := Render(message)
	if err != nil {
		return err
	}

	envelope := gomail.NewMessage()
	envelope.SetHeader("From", sender.from)
	envelope.SetHeader("To", message.To)
	envelope.SetHeader("Reply-To", ReplyTo)
	envelope.SetHeader("Subject", message.Subject)
	envelope.SetBody("text/html", body)

	if err := sender.dialer.DialAndSend(envelope); err != nil {
		return fmt.Errorf("mail: failed to send %s email: %w", message.Template, err)
	}
	return nil
}

// # Development

// LogSender logs messages instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send renders message (so template errors still surface) and logs it.
// The link is logged because this sender only runs without a real relay.
func (sender *LogSender) Send(context context.Context, message Message) error {
	if _, err := Render(message); err != nil {
		return err
	}
	sender.logger.InfoContext(context, "mail_not_sent_no_smtp",
		slog.String("to", message.To),
		slog.String("template", string(message.Template)),
		slog.String("link", message.Link),
	)
	return nil
}
