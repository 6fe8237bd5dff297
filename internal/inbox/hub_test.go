package inbox_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/inbox"
	"github.com/dmitrymomot/trustnotify/internal/notification"
)

func msgFor(userID, text string) inbox.Message {
	return inbox.Message{
		UserID:    userID,
		EventType: notification.EventStatementReady,
		Priority:  notification.PriorityNormal,
		Message:   text,
		SentAt:    time.Now().UTC(),
	}
}

func receive(t *testing.T, sub *inbox.Subscription) (inbox.Message, bool) {
	t.Helper()
	select {
	case m, ok := <-sub.C:
		return m, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for inbox message")
		return inbox.Message{}, false
	}
}

func TestHub_PublishSubscribe(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub()
	defer hub.Close()

	ctx := context.Background()
	a1, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)
	a2, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)
	b, err := hub.Subscribe(ctx, "bob")
	require.NoError(t, err)

	n, err := hub.Publish(ctx, msgFor("alice", "hello alice"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	m, ok := receive(t, a1)
	require.True(t, ok)
	assert.Equal(t, "hello alice", m.Message)
	m, ok = receive(t, a2)
	require.True(t, ok)
	assert.Equal(t, "hello alice", m.Message)

	select {
	case <-b.C:
		t.Fatal("bob must not receive alice's message")
	default:
	}

	n, err = hub.Publish(ctx, msgFor("carol", "nobody listening"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHub_Validation(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub()
	_, err := hub.Subscribe(context.Background(), "")
	assert.ErrorIs(t, err, inbox.ErrEmptyUserID)
	_, err = hub.Publish(context.Background(), inbox.Message{})
	assert.ErrorIs(t, err, inbox.ErrEmptyUserID)

	hub.Close()
	hub.Close()
	_, err = hub.Subscribe(context.Background(), "alice")
	assert.ErrorIs(t, err, inbox.ErrHubClosed)
	_, err = hub.Publish(context.Background(), msgFor("alice", "x"))
	assert.ErrorIs(t, err, inbox.ErrHubClosed)
}

func TestHub_ContextCancelEndsSubscription(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers("alice"))

	cancel()
	_, ok := receive(t, sub)
	assert.False(t, ok, "channel must be closed after cancel")
	assert.Eventually(t, func() bool { return hub.Users() == 0 }, time.Second, 5*time.Millisecond)

	sub.Close()
}

func TestHub_SubscriptionDoneOnEveryEnding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		end  func(t *testing.T, hub *inbox.Hub, sub *inbox.Subscription)
	}{
		{
			name: "close",
			end: func(_ *testing.T, _ *inbox.Hub, sub *inbox.Subscription) {
				sub.Close()
			},
		},
		{
			name: "eviction",
			end: func(t *testing.T, hub *inbox.Hub, _ *inbox.Subscription) {
				_, err := hub.Subscribe(context.Background(), "bob")
				require.NoError(t, err)
			},
		},
		{
			name: "slow subscriber",
			end: func(t *testing.T, hub *inbox.Hub, _ *inbox.Subscription) {
				for range 2 {
					_, err := hub.Publish(context.Background(), msgFor("alice", "hi"))
					require.NoError(t, err)
				}
			},
		},
		{
			name: "hub close",
			end: func(_ *testing.T, hub *inbox.Hub, _ *inbox.Subscription) {
				hub.Close()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hub := inbox.NewHub(inbox.WithBufferSize(1), inbox.WithMaxUsers(1))
			defer hub.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sub, err := hub.Subscribe(ctx, "alice")
			require.NoError(t, err)

			select {
			case <-sub.Done():
				t.Fatal("done closed before the subscription ended")
			default:
			}

			tt.end(t, hub, sub)

			select {
			case <-sub.Done():
			case <-time.After(time.Second):
				t.Fatal("done not closed after the subscription ended")
			}
		})
	}
}

// Not parallel: counts goroutines.
func TestHub_ClosedSubscriptionReleasesWatcher(t *testing.T) {
	hub := inbox.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseline := runtime.NumGoroutine()

	subs := make([]*inbox.Subscription, 0, 50)
	for range 50 {
		sub, err := hub.Subscribe(ctx, "alice")
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	assert.GreaterOrEqual(t, runtime.NumGoroutine(), baseline+50)

	for _, sub := range subs {
		sub.Close()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond, "watchers must exit while ctx is still live")
}

func TestHub_SlowSubscriberIsDropped(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub(inbox.WithBufferSize(1))
	defer hub.Close()

	ctx := context.Background()
	slow, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)

	n, err := hub.Publish(ctx, msgFor("alice", "first"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = hub.Publish(ctx, msgFor("alice", "second"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, hub.Subscribers("alice"))

	m, ok := receive(t, slow)
	require.True(t, ok)
	assert.Equal(t, "first", m.Message)
	_, ok = receive(t, slow)
	assert.False(t, ok)
}

func TestHub_EvictsLeastRecentlyUsedUser(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub(inbox.WithMaxUsers(2))
	defer hub.Close()

	ctx := context.Background()
	alice, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)
	_, err = hub.Subscribe(ctx, "bob")
	require.NoError(t, err)

	_, err = hub.Publish(ctx, msgFor("alice", "keep alice warm"))
	require.NoError(t, err)
	_, _ = receive(t, alice)

	_, err = hub.Subscribe(ctx, "carol")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.Users())
	assert.Equal(t, 1, hub.Subscribers("alice"))
	assert.Zero(t, hub.Subscribers("bob"))
	assert.Equal(t, 1, hub.Subscribers("carol"))
}

func TestHub_ConcurrentUse(t *testing.T) {
	t.Parallel()

	hub := inbox.NewHub(inbox.WithBufferSize(256))
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hub.Subscribe(ctx, "alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, _ = hub.Publish(ctx, msgFor("alice", "x"))
			}
		}()
	}
	wg.Wait()

	got := 0
	for got < 160 {
		if _, ok := receive(t, sub); !ok {
			break
		}
		got++
	}
	assert.Equal(t, 160, got)
}
