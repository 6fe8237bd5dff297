package sms

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Sender delivers a single text message.
type Sender interface {
	SendSMS(ctx context.Context, params SendSMSParams) error
}

type SendSMSParams struct {
	To   string
	Body string
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// NormalizePhone strips spaces, dashes and parentheses.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func (p SendSMSParams) Validate() error {
	if p.To == "" {
		return fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	}
	if !phoneRegex.MatchString(NormalizePhone(p.To)) {
		return fmt.Errorf("%w: recipient %q is not a valid phone number", ErrInvalidParams, p.To)
	}
	if p.Body == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// Driver names accepted by Config.Driver.
const (
	DriverTwilio = "twilio"
	DriverLog    = "log"
	DriverNone   = "none"
)

type Config struct {
	Driver           string `env:"SMS_DRIVER" envDefault:"none"`
	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
}

// New builds the Sender named by cfg.Driver. DriverNone yields a nil Sender.
func New(cfg Config, log *slog.Logger) (Sender, error) {
	switch cfg.Driver {
	case DriverTwilio:
		return NewTwilioSender(cfg)
	case DriverLog:
		return NewLogSender(log), nil
	case DriverNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.Driver)
	}
}
