package channel

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
	"github.com/dmitrymomot/trustnotify/pkg/sms"
)

// SMS sends through an sms.Sender. A nil sender reports every send as failed.
type SMS struct {
	sender sms.Sender
	log    *slog.Logger
}

// NewSMS wraps sender. A nil log uses slog.Default.
func NewSMS(sender sms.Sender, log *slog.Logger) *SMS {
	if log == nil {
		log = slog.Default()
	}
	return &SMS{sender: sender, log: log.With(logger.Component("channel.sms"))}
}

func (a *SMS) Channel() notification.Channel { return notification.ChannelSMS }

// Send targets meta.phone, falling back to the user's phone.
func (a *SMS) Send(ctx context.Context, d Delivery) Result {
	if a.sender == nil {
		return Failed(ReasonSMSNotConfigured)
	}

	to := d.Meta.Get(notification.MetaPhone)
	if to == "" {
		to = d.User.Phone
	}
	if to == "" {
		return Failed(ReasonNoPhone)
	}

	if err := a.sender.SendSMS(ctx, sms.SendSMSParams{To: to, Body: d.Message}); err != nil {
		return Failed(err.Error())
	}
	a.log.DebugContext(ctx, "sms sent", logger.UserID(d.User.ID), logger.EventType(d.EventType))
	return Succeeded()
}
