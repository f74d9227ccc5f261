// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/i18n"
	"github.com/wneessen/go-mail"
)

// Service sends transactional mail via SMTP. The underlying client is
// constructed on first use and shared for the process lifetime.
type Service struct {
	cfg *config.SMTPConfig

	clientOnce sync.Once
	client     *mail.Client
	clientErr  error
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendConfirmation sends the newsletter double opt-in email. The source path
// travels along as a header so provenance survives into the mailbox.
func (s *Service) SendConfirmation(ctx context.Context, to, confirmURL, sourcePath string) error {
	subject := i18n.T(ctx, "newsletter_confirm_subject")
	body := i18n.TData(ctx, "newsletter_confirm_body", map[string]any{
		"ConfirmURL": confirmURL,
	})

	msg, err := s.newMessage(to, subject, body)
	if err != nil {
		return err
	}
	if sourcePath != "" {
		msg.SetGenHeader("X-Signup-Source", sourcePath)
	}

	return s.send(ctx, msg)
}

// newMessage builds a plain-text message with the configured sender.
func (s *Service) newMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// send delivers a message over the shared SMTP client.
func (s *Service) send(ctx context.Context, msg *mail.Msg) error {
	client, err := s.mailClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// mailClient lazily constructs the SMTP client. No teardown needed, the
// process owns it for its entire lifetime.
func (s *Service) mailClient() (*mail.Client, error) {
	s.clientOnce.Do(func() {
		opts := []mail.Option{
			mail.WithPort(s.cfg.Port),
		}

		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.TLS {
			opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
			if s.cfg.Port == 465 {
				opts = append(opts, mail.WithSSL())
			}
		} else {
			opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
		}

		if s.cfg.Username != "" && s.cfg.Password != "" {
			opts = append(opts,
				mail.WithSMTPAuth(mail.SMTPAuthPlain),
				mail.WithUsername(s.cfg.Username),
				mail.WithPassword(s.cfg.Password),
			)
		}

		client, err := mail.NewClient(s.cfg.Host, opts...)
		if err != nil {
			s.clientErr = fmt.Errorf("creating mail client: %w", err)
			return
		}
		s.client = client
	})

	return s.client, s.clientErr
}
