package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/trustnotify/internal/channel"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/internal/templates"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
	"github.com/dmitrymomot/trustnotify/pkg/signature"
)

// DefaultAttemptTimeout bounds a single channel send.
const DefaultAttemptTimeout = 10 * time.Second

// ReasonNotConfigured is reported for channels without an adapter.
const ReasonNotConfigured = "channel not configured"

// Signer produces the record signature.
type Signer interface {
	Sign(p signature.Payload) (string, error)
}

// Recorder persists the final record and returns it with its id assigned.
type Recorder interface {
	Create(ctx context.Context, rec notification.Record) (notification.Record, error)
}

// Request is a single notification to dispatch. A nil Message means the
// template for EventType is used; a non-nil one is used verbatim.
type Request struct {
	User      notification.User
	EventType notification.EventType
	Priority  notification.Priority
	Message   *string
	Meta      notification.Meta
}

// Outcome is the stored record plus the attempt trail that produced it.
type Outcome struct {
	Record   notification.Record
	Attempts []Attempt
}

// Engine walks a request through its primary channel, any escalation
// fallbacks and the in-app backstop, then signs and stores the result.
// It is safe for concurrent use.
type Engine struct {
	signer   Signer
	store    Recorder
	adapters map[notification.Channel]channel.Adapter
	timeout  time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. A nil logger keeps slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithAttemptTimeout overrides DefaultAttemptTimeout. Non-positive values are ignored.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock replaces time.Now as the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an engine. An in-app adapter is mandatory; SMS and email
// adapters are optional and their absence turns sends on those channels
// into failed attempts.
func New(signer Signer, store Recorder, adapters []channel.Adapter, opts ...Option) (*Engine, error) {
	if signer == nil {
		return nil, ErrMissingSigner
	}
	if store == nil {
		return nil, ErrMissingStore
	}

	e := &Engine{
		signer:   signer,
		store:    store,
		adapters: make(map[notification.Channel]channel.Adapter, len(adapters)),
		timeout:  DefaultAttemptTimeout,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, a := range adapters {
		if a != nil {
			e.adapters[a.Channel()] = a
		}
	}
	if _, ok := e.adapters[notification.ChannelInApp]; !ok {
		return nil, ErrMissingInAppAdapter
	}

	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(logger.Component("dispatch"))
	return e, nil
}

// Dispatch runs a request to completion and returns the stored record.
// Channel failures are never returned as errors; they show up in the
// record's status. Errors mean the request was invalid or the record could
// not be signed or stored.
func (e *Engine) Dispatch(ctx context.Context, req Request) (notification.Record, error) {
	out, err := e.Run(ctx, req)
	return out.Record, err
}

// Run is Dispatch with the attempt trail.
func (e *Engine) Run(ctx context.Context, req Request) (Outcome, error) {
	if req.User.ID == "" {
		return Outcome{}, ErrMissingUser
	}
	if req.EventType == "" {
		return Outcome{}, ErrMissingEventType
	}
	priority := req.Priority.OrDefault()
	if !priority.Valid() {
		return Outcome{}, fmt.Errorf("%w: %q", ErrInvalidPriority, req.Priority)
	}

	if !utf8.ValidString(req.User.ID) || !utf8.ValidString(string(req.EventType)) {
		return Outcome{}, ErrInvalidText
	}

	d := channel.Delivery{
		User:      req.User,
		EventType: req.EventType,
		Priority:  priority,
		Message:   templates.Body(req.Message, req.EventType, req.Meta),
		Meta:      req.Meta.Clone(),
	}
	if !utf8.ValidString(d.Message) {
		return Outcome{}, fmt.Errorf("%w: message", ErrInvalidText)
	}

	ctx = context.WithoutCancel(ctx)

	r := newRun()

	primary := PrimaryChannel(req.EventType)
	r.record(e.attempt(ctx, primary, d, 1))
	if err := r.advance(StatePrimaryAttempted); err != nil {
		return Outcome{}, err
	}

	if !r.sent && priority.Escalates() {
		for _, ch := range FallbackChain(primary) {
			if Terminal(ch) {
				break
			}
			r.record(e.attempt(ctx, ch, d, len(r.attempts)+1))
			if err := r.advance(StateFallbackAttempted); err != nil {
				return Outcome{}, err
			}
			if r.sent {
				break
			}
		}
	}

	if !r.sent {
		r.force(e.attempt(ctx, notification.ChannelInApp, d, len(r.attempts)+1))
	}
	if err := r.advance(StateFinalized); err != nil {
		return Outcome{}, err
	}

	createdAt := e.now().UTC().Truncate(time.Millisecond)
	rec := notification.Record{
		UserID:      req.User.ID,
		EventType:   req.EventType,
		Priority:    priority,
		ChannelUsed: r.channelUsed,
		Message:     d.Message,
		Status:      r.status(),
		Attempts:    len(r.attempts),
		Meta:        d.Meta,
		CreatedAt:   createdAt,
	}

	sig, err := e.signer.Sign(rec.SignaturePayload())
	if err != nil {
		return Outcome{}, errors.Join(ErrSignFailed, err)
	}
	rec.Signature = sig

	stored, err := e.store.Create(ctx, rec)
	if err != nil {
		e.log.LogAttrs(ctx, slog.LevelError, "failed to persist notification",
			logger.UserID(req.User.ID),
			logger.EventType(req.EventType),
			logger.Channel(r.channelUsed),
			logger.Status(rec.Status),
			logger.Error(err),
		)
		return Outcome{}, errors.Join(ErrPersistFailed, err)
	}

	e.log.LogAttrs(ctx, slog.LevelInfo, "notification dispatched",
		logger.NotificationID(stored.ID),
		logger.UserID(stored.UserID),
		logger.EventType(stored.EventType),
		logger.Priority(stored.Priority),
		logger.Channel(stored.ChannelUsed),
		logger.Status(stored.Status),
		logger.Attempt(stored.Attempts),
	)

	return Outcome{Record: stored, Attempts: r.attempts}, nil
}

// attempt sends d on ch with the per-attempt timeout. Adapter panics and
// timeouts become failed results.
func (e *Engine) attempt(ctx context.Context, ch notification.Channel, d channel.Delivery, n int) Attempt {
	started := e.now()
	res := e.send(ctx, ch, d)
	a := Attempt{Channel: ch, Result: res, Duration: e.now().Sub(started)}

	if !res.Success {
		e.log.LogAttrs(ctx, slog.LevelWarn, "channel attempt failed",
			logger.UserID(d.User.ID),
			logger.EventType(d.EventType),
			logger.Channel(ch),
			logger.Attempt(n),
			slog.String("reason", res.Error),
		)
	}
	return a
}

func (e *Engine) send(ctx context.Context, ch notification.Channel, d channel.Delivery) channel.Result {
	adapter, ok := e.adapters[ch]
	if !ok {
		return channel.Failed(ReasonNotConfigured)
	}

	actx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan channel.Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- channel.Failed(fmt.Sprintf("adapter panic: %v", p))
			}
		}()
		done <- adapter.Send(actx, d)
	}()

	select {
	case res := <-done:
		return res
	case <-actx.Done():
		return channel.Failed(fmt.Sprintf("timeout after %s", e.timeout))
	}
}
