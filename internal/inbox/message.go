package inbox

import (
	"time"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

// Message is one in-app notification as pushed to subscribers.
type Message struct {
	UserID    string                 `json:"userId"`
	EventType notification.EventType `json:"eventType"`
	Priority  notification.Priority  `json:"priority"`
	Message   string                 `json:"message"`
	Meta      notification.Meta      `json:"meta,omitempty"`
	SentAt    time.Time              `json:"sentAt"`
}
