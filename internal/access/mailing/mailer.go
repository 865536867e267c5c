// Package mailing delivers invite links by SMTP. The access core never sends
// mail itself; the invite flow hands a finished URL to a Mailer.
package mailing

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/go-mail/mail"
	"github.com/jaytaylor/html2text"
)

//go:embed templates/*.html
var templates embed.FS

type Config struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FromName    string
	ServiceName string
}

// Invite is one invitation email.
type Invite struct {
	To           string
	Name         string
	ProjectTitle string
	URL          string
	ExpiresAt    *time.Time
}

type Mailer struct {
	noop    bool
	cfg     Config
	log     *slog.Logger
	tmpl    *template.Template
	deliver func(*mail.Message) error
}

// New builds an SMTP mailer. A disabled config yields a mailer that logs and
// drops every message.
func New(cfg Config, log *slog.Logger) (*Mailer, error) {
	if log == nil {
		log = slog.Default()
	}
	tmpl, err := template.ParseFS(templates, "templates/invite.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "linkgate"
	}

	m := &Mailer{noop: !cfg.Enabled, cfg: cfg, log: log, tmpl: tmpl}
	if m.noop {
		return m, nil
	}
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp host and from address are required when mail is enabled")
	}

	dialer := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = 10 * time.Second
	m.deliver = func(msg *mail.Message) error { return dialer.DialAndSend(msg) }
	return m, nil
}

func NewNoop(log *slog.Logger) *Mailer {
	m, _ := New(Config{}, log)
	return m
}

func (m *Mailer) Enabled() bool { return !m.noop }

// SendInvite renders and delivers an invitation. The link itself is never
// logged.
func (m *Mailer) SendInvite(ctx context.Context, inv Invite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.noop {
		m.log.Info("skipping invite email because mail is disabled",
			slog.String("to", inv.To),
			slog.String("project", inv.ProjectTitle),
		)
		return nil
	}

	subject, html, text, err := m.render(inv)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetAddressHeader("To", inv.To, inv.Name)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	if err := m.deliver(msg); err != nil {
		return fmt.Errorf("send invite mail: %w", err)
	}
	m.log.Info("invite email sent", slog.String("to", inv.To))
	return nil
}

func (m *Mailer) render(inv Invite) (subject, html, text string, err error) {
	subject = fmt.Sprintf("You're invited to %s", inv.ProjectTitle)

	model := map[string]any{
		"Subject":      subject,
		"Name":         inv.Name,
		"ProjectTitle": inv.ProjectTitle,
		"URL":          inv.URL,
		"ServiceName":  m.cfg.ServiceName,
	}
	if inv.ExpiresAt != nil {
		model["ExpiresAt"] = inv.ExpiresAt.UTC().Format("2 January 2006 15:04 MST")
	}

	var buf strings.Builder
	if err := m.tmpl.ExecuteTemplate(&buf, "invite.html", model); err != nil {
		return "", "", "", fmt.Errorf("render invite mail: %w", err)
	}
	html = buf.String()

	text, err = html2text.FromString(html, html2text.Options{PrettyTables: true})
	if err != nil {
		return "", "", "", fmt.Errorf("render invite mail text: %w", err)
	}
	return subject, html, text, nil
}
