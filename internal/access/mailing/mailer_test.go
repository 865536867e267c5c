package mailing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-mail/mail"
	"github.com/stretchr/testify/require"
)

func TestRenderInvite(t *testing.T) {
	m := NewNoop(nil)
	exp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	subject, html, text, err := m.render(Invite{
		To:           "a@example.com",
		Name:         "Alex",
		ProjectTitle: "Best man speech",
		URL:          "https://speeches.example/invite/abc123",
		ExpiresAt:    &exp,
	})
	require.NoError(t, err)
	require.Equal(t, "You're invited to Best man speech", subject)
	require.Contains(t, html, `href="https://speeches.example/invite/abc123"`)
	require.Contains(t, html, "1 May 2026")
	require.Contains(t, text, "https://speeches.example/invite/abc123")
	require.Contains(t, text, "Hi Alex")
}

func TestNoopMailerDropsMessages(t *testing.T) {
	m := NewNoop(nil)
	require.False(t, m.Enabled())
	require.NoError(t, m.SendInvite(context.Background(), Invite{To: "a@example.com"}))
}

func TestNewRequiresHostWhenEnabled(t *testing.T) {
	_, err := New(Config{Enabled: true}, nil)
	require.Error(t, err)
}

func TestSendInviteDelivers(t *testing.T) {
	m, err := New(Config{Enabled: true, Host: "localhost", Port: 2525, From: "noreply@example.com"}, nil)
	require.NoError(t, err)

	var sent *mail.Message
	m.deliver = func(msg *mail.Message) error {
		sent = msg
		return nil
	}

	err = m.SendInvite(context.Background(), Invite{
		To:           "a@example.com",
		ProjectTitle: "Toast",
		URL:          "https://speeches.example/invite/abc",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)
	require.Equal(t, []string{"You're invited to Toast"}, sent.GetHeader("Subject"))
	require.Equal(t, []string{"a@example.com"}, sent.GetHeader("To"))

	m.deliver = func(*mail.Message) error { return errors.New("connection refused") }
	require.Error(t, m.SendInvite(context.Background(), Invite{To: "a@example.com"}))
}
