package notification

import (
	"time"

	"github.com/dmitrymomot/trustnotify/pkg/signature"
)

// User is the addressee of a notification as seen by the dispatch engine.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Record is the persisted outcome of one dispatch run. It is written once
// and never mutated.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	EventType   EventType `json:"eventType"`
	Priority    Priority  `json:"priority"`
	ChannelUsed Channel   `json:"channelUsed"`
	Message     string    `json:"message"`
	Status      Status    `json:"status"`
	Attempts    int       `json:"attempts"`
	Signature   string    `json:"signature"`
	Meta        Meta      `json:"meta,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SignaturePayload is the four-field subset covered by Signature.
func (r Record) SignaturePayload() signature.Payload {
	return signature.Payload{
		UserID:    r.UserID,
		Message:   r.Message,
		EventType: string(r.EventType),
		CreatedAt: signature.FormatTime(r.CreatedAt),
	}
}
