package mail

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/solarcrm/pipeline-crm/internal/infra/queue"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender mails operator alerts over SMTP.
type EmailSender struct {
	from   string
	to     string
	dialer dialer
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		from:   from,
		to:     to,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendAlert(ctx context.Context, alert queue.AlertPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, AlertEmailData(alert)); err != nil {
		return fmt.Errorf("error al procesar plantilla: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", fmt.Sprintf("[CRM Solar] %s", alert.Title))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("error al enviar correo SMTP: %w", err)
	}
	return nil
}
