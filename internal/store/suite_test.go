package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/internal/store"
)

func sampleRecord(userID string, createdAt time.Time) notification.Record {
	return notification.Record{
		UserID:      userID,
		EventType:   notification.EventTransactionCredit,
		Priority:    notification.PriorityHigh,
		ChannelUsed: notification.ChannelEmail,
		Message:     "Rs.250 was credited to your account.",
		Status:      notification.StatusSent,
		Attempts:    2,
		Signature:   "deadbeef",
		Meta:        notification.Meta{notification.MetaAmount: "250"},
		CreatedAt:   createdAt,
	}
}

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	// Unique user ids keep runs against shared databases independent.
	alice := "alice-" + uuid.NewString()
	bob := "bob-" + uuid.NewString()
	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	t.Run("create assigns id and truncates time", func(t *testing.T) {
		rec := sampleRecord(alice, base.Add(123456789*time.Nanosecond))
		created, err := s.Create(ctx, rec)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, base.Add(123*time.Millisecond), created.CreatedAt)

		got, err := s.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("create keeps a caller supplied id", func(t *testing.T) {
		rec := sampleRecord(alice, base.Add(time.Minute))
		rec.ID = uuid.NewString()
		created, err := s.Create(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, created.ID)
	})

	t.Run("create rejects incomplete records", func(t *testing.T) {
		_, err := s.Create(ctx, notification.Record{EventType: notification.EventOTP})
		assert.ErrorIs(t, err, store.ErrInvalidRecord)

		_, err = s.Create(ctx, notification.Record{UserID: alice})
		assert.ErrorIs(t, err, store.ErrInvalidRecord)
	})

	t.Run("find by user is newest first and scoped", func(t *testing.T) {
		for i := range 3 {
			rec := sampleRecord(bob, base.Add(time.Duration(i)*time.Hour))
			rec.Message = []string{"first", "second", "third"}[i]
			_, err := s.Create(ctx, rec)
			require.NoError(t, err)
		}

		recs, err := s.FindByUser(ctx, bob)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "third", recs[0].Message)
		assert.Equal(t, "second", recs[1].Message)
		assert.Equal(t, "first", recs[2].Message)
		for _, r := range recs {
			assert.Equal(t, bob, r.UserID)
			assert.Equal(t, "250", r.Meta.Get(notification.MetaAmount))
		}

		none, err := s.FindByUser(ctx, "nobody-"+uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("get is scoped to the owner", func(t *testing.T) {
		created, err := s.Create(ctx, sampleRecord(alice, base.Add(2*time.Minute)))
		require.NoError(t, err)

		_, err = s.Get(ctx, bob, created.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Get(ctx, alice, uuid.NewString())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil meta round trips", func(t *testing.T) {
		rec := sampleRecord(alice, base.Add(3*time.Minute))
		rec.Meta = nil
		created, err := s.Create(ctx, rec)
		require.NoError(t, err)

		got, err := s.Get(ctx, alice, created.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Meta)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
