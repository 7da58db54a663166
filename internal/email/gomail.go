package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/serenityspa/wellness-api/config"
)

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailService creates an SMTP-backed email service.
func NewGomailService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendPasswordReset(ctx context.Context, email, token string) error {
	body := fmt.Sprintf("Use this token to reset your password: %s\n\nIf you did not request a reset, ignore this message.", token)
	return s.send(ctx, email, "Password reset", body)
}

func (s *gomailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Serenity Spa. You can now book appointments online.", name)
	return s.send(ctx, email, "Welcome to Serenity Spa", body)
}

func (s *gomailService) SendCustom(ctx context.Context, to, subject, content string) error {
	return s.send(ctx, to, subject, content)
}

func (s *gomailService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
