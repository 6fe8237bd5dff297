package channel

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/email"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

// Email sends a plain-text message with subject "Notification: <EVENT>".
type Email struct {
	sender email.Sender
	log    *slog.Logger
}

// NewEmail wraps sender. A nil log uses slog.Default.
func NewEmail(sender email.Sender, log *slog.Logger) *Email {
	if log == nil {
		log = slog.Default()
	}
	return &Email{sender: sender, log: log.With(logger.Component("channel.email"))}
}

func (a *Email) Channel() notification.Channel { return notification.ChannelEmail }

// Subject is the email subject line for eventType.
func Subject(eventType notification.EventType) string {
	return "Notification: " + string(eventType)
}

// Send targets meta.email, falling back to the user's email.
func (a *Email) Send(ctx context.Context, d Delivery) Result {
	if a.sender == nil {
		return Failed(ReasonEmailNotConfigured)
	}

	to := d.Meta.Get(notification.MetaEmail)
	if to == "" {
		to = d.User.Email
	}
	if to == "" {
		return Failed(ReasonNoEmail)
	}

	err := a.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  Subject(d.EventType),
		BodyText: d.Message,
		Tag:      string(d.EventType),
	})
	if err != nil {
		return Failed(err.Error())
	}
	a.log.DebugContext(ctx, "email sent", logger.UserID(d.User.ID), logger.EventType(d.EventType))
	return Succeeded()
}
