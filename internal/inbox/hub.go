package inbox

import (
	"container/list"
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/trustnotify/pkg/logger"
)

const (
	DefaultBufferSize = 16
	DefaultMaxUsers   = 10000
)

// Subscription is a live feed for one user. C is closed when the
// subscription ends for any reason.
type Subscription struct {
	C <-chan Message

	ch    chan Message
	topic *topic
	once  sync.Once
	done  chan struct{}
	hub   *Hub
}

// Close ends the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Done is closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) closeChan() {
	s.once.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

type topic struct {
	userID string
	subs   map[*Subscription]struct{}
	elem   *list.Element
}

// Hub fans messages out to per-user subscribers. It is safe for concurrent use.
type Hub struct {
	mu         sync.Mutex
	topics     map[string]*topic
	recency    *list.List
	bufferSize int
	maxUsers   int
	closed     bool
	log        *slog.Logger
}

type HubOption func(*Hub)

func WithBufferSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithMaxUsers bounds the number of users with open topics.
func WithMaxUsers(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxUsers = n
		}
	}
}

func WithHubLogger(log *slog.Logger) HubOption {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		topics:     make(map[string]*topic),
		recency:    list.New(),
		bufferSize: DefaultBufferSize,
		maxUsers:   DefaultMaxUsers,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("inbox.hub"))
	return h
}

// Subscribe registers a new subscriber for userID. The subscription ends
// when ctx is cancelled, when Close is called, when the subscriber falls
// behind, or when the user's topic is evicted.
func (h *Hub) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}

	t, ok := h.topics[userID]
	if ok {
		h.recency.MoveToFront(t.elem)
	} else {
		t = &topic{userID: userID, subs: make(map[*Subscription]struct{})}
		t.elem = h.recency.PushFront(t)
		h.topics[userID] = t
	}

	ch := make(chan Message, h.bufferSize)
	sub := &Subscription{C: ch, ch: ch, topic: t, done: make(chan struct{}), hub: h}
	t.subs[sub] = struct{}{}

	var evicted *topic
	if h.recency.Len() > h.maxUsers {
		evicted = h.recency.Back().Value.(*topic)
		h.removeTopicLocked(evicted)
	}
	h.mu.Unlock()

	if evicted != nil {
		h.log.Debug("evicted inbox topic", logger.UserID(evicted.userID))
	}

	if done := ctx.Done(); done != nil {
		go func() {
			select {
			case <-done:
				sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub, nil
}

// Publish delivers msg to every current subscriber of msg.UserID and returns
// how many received it.
func (h *Hub) Publish(_ context.Context, msg Message) (int, error) {
	if msg.UserID == "" {
		return 0, ErrEmptyUserID
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHubClosed
	}

	t, ok := h.topics[msg.UserID]
	if !ok {
		return 0, nil
	}
	h.recency.MoveToFront(t.elem)

	delivered := 0
	for sub := range t.subs {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			h.log.Warn("dropping slow inbox subscriber", logger.UserID(msg.UserID))
			h.removeSubLocked(sub)
		}
	}
	return delivered, nil
}

// Subscribers returns the number of live subscribers for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[userID]; ok {
		return len(t.subs)
	}
	return 0
}

// Users returns the number of users with open topics.
func (h *Hub) Users() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics)
}

// Close ends every subscription. Publish and Subscribe fail afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, t := range h.topics {
		h.removeTopicLocked(t)
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeSubLocked(sub)
}

// Must be called with h.mu held.
func (h *Hub) removeSubLocked(sub *Subscription) {
	t := sub.topic
	if _, ok := t.subs[sub]; ok {
		delete(t.subs, sub)
		sub.closeChan()
	}
	if len(t.subs) == 0 {
		if cur, ok := h.topics[t.userID]; ok && cur == t {
			h.recency.Remove(t.elem)
			delete(h.topics, t.userID)
		}
	}
}

// Must be called with h.mu held.
func (h *Hub) removeTopicLocked(t *topic) {
	for sub := range t.subs {
		delete(t.subs, sub)
		sub.closeChan()
	}
	h.recency.Remove(t.elem)
	delete(h.topics, t.userID)
}
