package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

// Memory keeps records in process memory. Suitable for development and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]notification.Record // userID -> records in insertion order
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]notification.Record),
		now:     time.Now,
	}
}

func (s *Memory) Create(_ context.Context, rec notification.Record) (notification.Record, error) {
	rec, err := prepare(rec, s.now)
	if err != nil {
		return notification.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return rec, nil
}

func (s *Memory) FindByUser(_ context.Context, userID string) ([]notification.Record, error) {
	s.mu.RLock()
	stored := s.records[userID]
	out := make([]notification.Record, len(stored))
	copy(out, stored)
	s.mu.RUnlock()

	// Reverse first so records sharing a timestamp stay newest-inserted first.
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b notification.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	for i := range out {
		out[i].Meta = out[i].Meta.Clone()
	}
	return out, nil
}

func (s *Memory) Get(_ context.Context, userID, id string) (notification.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records[userID] {
		if rec.ID == id {
			rec.Meta = rec.Meta.Clone()
			return rec, nil
		}
	}
	return notification.Record{}, ErrNotFound
}

func (s *Memory) Ping(context.Context) error { return nil }

func (s *Memory) Close(context.Context) error { return nil }
