// Package channel adapts concrete transports (SMS, email, in-app inbox) to
// the uniform Adapter contract the dispatch engine drives.
//
// Adapters never return errors or panic on transport failure: every outcome
// is a Result. Missing configuration and missing recipients are failures
// too, so a half-configured deployment degrades instead of crashing.
package channel

import (
	"context"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

// Delivery is everything an adapter needs to send one notification.
type Delivery struct {
	User      notification.User
	EventType notification.EventType
	Priority  notification.Priority
	Message   string
	Meta      notification.Meta
}

// Result is the outcome of a single send.
type Result struct {
	Success bool
	Error   string
}

func Succeeded() Result { return Result{Success: true} }

func Failed(reason string) Result { return Result{Error: reason} }

// Adapter sends a Delivery over one channel.
type Adapter interface {
	Channel() notification.Channel
	Send(ctx context.Context, d Delivery) Result
}

// Failure reasons shared by adapters.
const (
	ReasonSMSNotConfigured   = "sms provider not configured"
	ReasonEmailNotConfigured = "email transport not configured"
	ReasonNoPhone            = "no recipient phone"
	ReasonNoEmail            = "no recipient email"
)
