package email

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/mail.v2"
)

type smtpClient struct {
	dialer *mail.Dialer
	config Config
}

// NewSMTPClient creates a sender that dials the configured relay for each
// message.
func NewSMTPClient(cfg Config) (Sender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTPHost is required", ErrInvalidConfig)
	}
	if cfg.SMTPPort <= 0 {
		return nil, fmt.Errorf("%w: SMTPPort must be positive", ErrInvalidConfig)
	}
	if cfg.SMTPFrom != "" {
		cfg.SenderEmail = cfg.SMTPFrom
	}
	if err := validateSenders(cfg); err != nil {
		return nil, err
	}

	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if cfg.SMTPTimeout > 0 {
		d.Timeout = cfg.SMTPTimeout
	}
	return &smtpClient{dialer: d, config: cfg}, nil
}

func (c *smtpClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	m := buildMessage(c.config, params)

	// DialAndSend has no context; the caller's deadline still bounds how long
	// we wait for it.
	done := make(chan error, 1)
	go func() { done <- c.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return errors.Join(ErrFailedToSendEmail, err)
		}
		return nil
	case <-ctx.Done():
		return errors.Join(ErrFailedToSendEmail, ctx.Err())
	}
}

func buildMessage(cfg Config, params SendEmailParams) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", cfg.SenderEmail)
	m.SetHeader("To", params.SendTo)
	m.SetHeader("Subject", params.Subject)
	if cfg.SupportEmail != "" {
		m.SetHeader("Reply-To", cfg.SupportEmail)
	}
	if params.Tag != "" {
		m.SetHeader("X-Tag", params.Tag)
	}

	switch {
	case params.BodyText != "" && params.BodyHTML != "":
		m.SetBody("text/plain", params.BodyText)
		m.AddAlternative("text/html", params.BodyHTML)
	case params.BodyHTML != "":
		m.SetBody("text/html", params.BodyHTML)
	default:
		m.SetBody("text/plain", params.BodyText)
	}
	return m
}
