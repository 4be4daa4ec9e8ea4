package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/polito-log/backend/internal/config"
	"gopkg.in/gomail.v2"
)

const magicLinkSubject = "Your Polito-Log login link"

var magicLinkHTML = template.Must(template.New("magic_link").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <p>Hello{{if .Username}} {{.Username}}{{end}},</p>
  <p>Use the link below to log in to {{.SenderName}}. It expires in {{.TTL}} and can be used once.</p>
  <p><a href="{{.Link}}">Log in</a></p>
  <p>If you did not request this email you can ignore it.</p>
</body>
</html>
`))

// dialer is the part of gomail.Dialer the sender needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender mails login links through an SMTP relay (Brevo in production).
type SMTPSender struct {
	from       string
	senderName string
	ttl        string
	dialer     dialer
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		from:       cfg.EmailSenderAddress,
		senderName: cfg.EmailSenderName,
		ttl:        cfg.MagicLinkTTL.String(),
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

func (s *SMTPSender) SendMagicLink(ctx context.Context, msg MagicLinkMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := magicLinkHTML.Execute(&body, map[string]string{
		"Username":   msg.Username,
		"Link":       msg.Link,
		"SenderName": s.senderName,
		"TTL":        s.ttl,
	}); err != nil {
		return fmt.Errorf("failed to render magic link email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", magicLinkSubject)
	m.SetBody("text/plain", "Log in to "+s.senderName+": "+msg.Link)
	m.AddAlternative("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send magic link email: %w", err)
	}
	return nil
}
