// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authkit/internal/platform/mail"
)

/*
TestRender verifies both templates and HTML escaping of the account name.
*/
func TestRender(t *testing.T) {
	for _, tmpl := range []mail.Template{mail.TemplateEmailVerification, mail.TemplateForgotPassword} {
		t.Run(string(tmpl), func(t *testing.T) {
			body, err := mail.Render(mail.Message{
				Template: tmpl,
				Name:     "<b>Ada</b>",
				Link:     "http://localhost:3000/reset-password/abc",
			})
			require.NoError(t, err)

			assert.Contains(t, body, "http://localhost:3000/reset-password/abc")
			assert.Contains(t, body, "&lt;b&gt;Ada&lt;/b&gt;")
		})
	}

	_, err := mail.Render(mail.Message{Template: "missing"})
	assert.Error(t, err)
}

/*
TestLogSender verifies that the development sender logs the link.
*/
func TestLogSender(t *testing.T) {
	var buffer bytes.Buffer
	sender := mail.NewLogSender(slog.New(slog.NewJSONHandler(&buffer, nil)))

	err := sender.Send(context.Background(), mail.Message{
		To:       "ada@example.com",
		Template: mail.TemplateForgotPassword,
		Link:     "http://localhost:3000/reset-password/abc",
	})
	require.NoError(t, err)

	assert.Contains(t, buffer.String(), "mail_not_sent_no_smtp")
	assert.Contains(t, buffer.String(), "reset-password/abc")
}

/*
TestSMTPSender_Cancelled verifies cancellation is honoured before dialing.
*/
func TestSMTPSender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := mail.NewSMTPSender("127.0.0.1", 1, "", "", "noreply@authkit.local")
	err := sender.Send(ctx, mail.Message{Template: mail.TemplateForgotPassword})
	assert.ErrorIs(t, err, context.Canceled)
}
