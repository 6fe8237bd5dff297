package channel

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/trustnotify/internal/inbox"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

// InApp pushes to the live inbox. The persisted record is the durable copy,
// so the write always succeeds; publish errors are only logged.
type InApp struct {
	pub inbox.Publisher
	now func() time.Time
	log *slog.Logger
}

// NewInApp accepts a nil publisher, in which case sends are recorded only.
func NewInApp(pub inbox.Publisher, log *slog.Logger) *InApp {
	if log == nil {
		log = slog.Default()
	}
	return &InApp{pub: pub, now: time.Now, log: log.With(logger.Component("channel.in_app"))}
}

func (a *InApp) Channel() notification.Channel { return notification.ChannelInApp }

func (a *InApp) Send(ctx context.Context, d Delivery) Result {
	if a.pub == nil {
		return Succeeded()
	}

	n, err := a.pub.Publish(ctx, inbox.Message{
		UserID:    d.User.ID,
		EventType: d.EventType,
		Priority:  d.Priority,
		Message:   d.Message,
		Meta:      d.Meta,
		SentAt:    a.now().UTC(),
	})
	if err != nil {
		a.log.WarnContext(ctx, "in-app publish failed", logger.UserID(d.User.ID), logger.Error(err))
		return Succeeded()
	}
	a.log.DebugContext(ctx, "in-app message stored", logger.UserID(d.User.ID), slog.Int("live_subscribers", n))
	return Succeeded()
}
