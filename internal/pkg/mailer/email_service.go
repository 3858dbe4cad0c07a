package mailer

import (
	"context"
	"errors"
	"fmt"

	"wtf2eat-be/internal/config"

	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned by Send when no SMTP host is set.
var ErrNotConfigured = errors.New("mailer: SMTP host not configured")

// Mail is one outbound message. HTML is optional and sent as an alternative part.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// IEmailService is the outbound email capability.
type IEmailService interface {
	Send(ctx context.Context, mail Mail) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender sender
	from   string
	name   string
}

func NewEmailService(cfg config.SMTPConfig) IEmailService {
	var s sender
	if cfg.Host != "" {
		s = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password)
	}
	return &emailService{sender: s, from: cfg.Email, name: cfg.SenderName}
}

func (s *emailService) Send(ctx context.Context, mail Mail) error {
	if s.sender == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sender.DialAndSend(s.compose(mail)); err != nil {
		return fmt.Errorf("send mail to %s: %w", mail.To, err)
	}
	return nil
}

func (s *emailService) compose(mail Mail) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/plain", mail.Text)
	if mail.HTML != "" {
		m.AddAlternative("text/html", mail.HTML)
	}
	return m
}
