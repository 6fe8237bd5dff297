package dispatch

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrymomot/trustnotify/internal/channel"
	"github.com/dmitrymomot/trustnotify/internal/notification"
)

// State is a step of a dispatch run.
type State string

const (
	StateInit              State = "INIT"
	StatePrimaryAttempted  State = "PRIMARY_ATTEMPTED"
	StateFallbackAttempted State = "FALLBACK_ATTEMPTED"
	StateFinalized         State = "FINALIZED"
)

var transitions = map[State][]State{
	StateInit:              {StatePrimaryAttempted},
	StatePrimaryAttempted:  {StateFallbackAttempted, StateFinalized},
	StateFallbackAttempted: {StateFallbackAttempted, StateFinalized},
}

// Attempt is one channel send within a run.
type Attempt struct {
	Channel  notification.Channel
	Result   channel.Result
	Forced   bool
	Duration time.Duration
}

// run accumulates the bookkeeping of a single dispatch.
type run struct {
	state       State
	attempts    []Attempt
	channelUsed notification.Channel
	sent        bool
}

func newRun() *run {
	return &run{state: StateInit}
}

func (r *run) advance(to State) error {
	if !slices.Contains(transitions[r.state], to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, r.state, to)
	}
	r.state = to
	return nil
}

// record notes a substantive attempt; its outcome drives the final status.
func (r *run) record(a Attempt) {
	r.attempts = append(r.attempts, a)
	r.channelUsed = a.Channel
	r.sent = a.Result.Success
}

// force notes the safety-net in-app write, which never changes the status.
func (r *run) force(a Attempt) {
	a.Forced = true
	r.attempts = append(r.attempts, a)
	r.channelUsed = a.Channel
}

func (r *run) status() notification.Status {
	if r.sent {
		return notification.StatusSent
	}
	return notification.StatusFailed
}
