// Package store persists notification records.
//
// Records are append-only: Create writes a record once and nothing updates
// it afterwards. Three backends share the Store contract: an in-memory map
// for development and tests, MongoDB, and PostgreSQL.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

var (
	ErrNotFound       = errors.New("store: record not found")
	ErrUnknownDriver  = errors.New("store: unknown driver")
	ErrInvalidRecord  = errors.New("store: invalid record")
	ErrFailedToCreate = errors.New("store: failed to create record")
	ErrFailedToQuery  = errors.New("store: failed to query records")
)

// Store is the record store used by the dispatch engine and the read API.
type Store interface {
	// Create assigns an id and creation time when missing and returns the
	// stored record.
	Create(ctx context.Context, rec notification.Record) (notification.Record, error)

	// FindByUser returns the user's records, newest first.
	FindByUser(ctx context.Context, userID string) ([]notification.Record, error)

	// Get returns one record owned by userID, or ErrNotFound.
	Get(ctx context.Context, userID, id string) (notification.Record, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// prepare validates rec and fills the fields Create is allowed to assign.
func prepare(rec notification.Record, now func() time.Time) (notification.Record, error) {
	if rec.UserID == "" {
		return rec, errors.Join(ErrInvalidRecord, errors.New("user id is required"))
	}
	if rec.EventType == "" {
		return rec, errors.Join(ErrInvalidRecord, errors.New("event type is required"))
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Millisecond)
	rec.Meta = rec.Meta.Clone()
	return rec, nil
}
