package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

const channelPrefix = "inbox:"

// Publisher is what the in-app channel writes to. Both Hub and Relay satisfy it.
type Publisher interface {
	Publish(ctx context.Context, msg Message) (int, error)
}

type envelope struct {
	Origin  string  `json:"origin"`
	Message Message `json:"message"`
}

// Relay publishes to the local hub and mirrors each message to Redis on
// channel "inbox:<userID>". Run consumes the mirrored messages from other
// instances and hands them to the local hub.
type Relay struct {
	hub    *Hub
	client redis.UniversalClient
	origin string
	log    *slog.Logger
}

func NewRelay(hub *Hub, client redis.UniversalClient, log *slog.Logger) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{
		hub:    hub,
		client: client,
		origin: uuid.NewString(),
		log:    log.With(logger.Component("inbox.relay")),
	}
}

// Publish delivers locally first. Redis failures are logged and do not fail
// the call, so local subscribers are never penalised for a broken relay.
func (r *Relay) Publish(ctx context.Context, msg Message) (int, error) {
	n, err := r.hub.Publish(ctx, msg)
	if err != nil {
		return n, err
	}

	payload, err := json.Marshal(envelope{Origin: r.origin, Message: msg})
	if err != nil {
		r.log.ErrorContext(ctx, "failed to encode relay message", logger.Error(errors.Join(ErrRelayEncoding, err)))
		return n, nil
	}
	if err := r.client.Publish(ctx, channelPrefix+msg.UserID, payload).Err(); err != nil {
		r.log.WarnContext(ctx, "failed to relay inbox message",
			logger.UserID(msg.UserID),
			logger.Error(err),
		)
	}
	return n, nil
}

// Run blocks until ctx is done, forwarding messages published by other
// instances to the local hub.
func (r *Relay) Run(ctx context.Context) error {
	ps := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer func() { _ = ps.Close() }()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(ctx, m)
		}
	}
}

func (r *Relay) handle(ctx context.Context, m *redis.Message) {
	var env envelope
	if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
		r.log.WarnContext(ctx, "discarding malformed relay message",
			slog.String("channel", m.Channel),
			logger.Error(err),
		)
		return
	}
	if env.Origin == r.origin {
		return
	}
	if env.Message.UserID == "" {
		env.Message.UserID = strings.TrimPrefix(m.Channel, channelPrefix)
	}
	if _, err := r.hub.Publish(ctx, env.Message); err != nil && !errors.Is(err, ErrHubClosed) {
		r.log.WarnContext(ctx, "failed to deliver relayed message", logger.Error(err))
	}
}
