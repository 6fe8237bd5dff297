package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the goose migrations for the postgres backend.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const pgColumns = `id, user_id, event_type, priority, channel_used, message, status, attempts, signature, meta, created_at`

// Postgres stores records in the notifications table.
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, now: time.Now}
}

// MigratePostgres applies the embedded schema.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, log *slog.Logger) error {
	return pg.Migrate(ctx, pool, Migrations(), cfg, log)
}

func (s *Postgres) Create(ctx context.Context, rec notification.Record) (notification.Record, error) {
	rec, err := prepare(rec, s.now)
	if err != nil {
		return notification.Record{}, err
	}

	var meta []byte
	if rec.Meta != nil {
		if meta, err = json.Marshal(rec.Meta); err != nil {
			return notification.Record{}, errors.Join(ErrFailedToCreate, err)
		}
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO notifications (`+pgColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.UserID, string(rec.EventType), string(rec.Priority), string(rec.ChannelUsed),
		rec.Message, string(rec.Status), rec.Attempts, rec.Signature, meta, rec.CreatedAt,
	)
	if err != nil {
		return notification.Record{}, errors.Join(ErrFailedToCreate, err)
	}
	return rec, nil
}

func (s *Postgres) FindByUser(ctx context.Context, userID string) ([]notification.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Join(ErrFailedToQuery, err)
	}
	defer rows.Close()

	out := []notification.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Join(ErrFailedToQuery, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToQuery, err)
	}
	return out, nil
}

func (s *Postgres) Get(ctx context.Context, userID, id string) (notification.Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgColumns+` FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	rec, err := scanRecord(row)
	if pg.IsNotFoundError(err) {
		return notification.Record{}, ErrNotFound
	}
	if err != nil {
		return notification.Record{}, errors.Join(ErrFailedToQuery, err)
	}
	return rec, nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	return pg.Healthcheck(s.pool)(ctx)
}

func (s *Postgres) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanRecord(row pgx.Row) (notification.Record, error) {
	var (
		rec                                  notification.Record
		eventType, priority, channel, status string
		meta                                 []byte
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &eventType, &priority, &channel,
		&rec.Message, &status, &rec.Attempts, &rec.Signature, &meta, &rec.CreatedAt,
	)
	if err != nil {
		return notification.Record{}, err
	}

	rec.EventType = notification.EventType(eventType)
	rec.Priority = notification.Priority(priority)
	rec.ChannelUsed = notification.Channel(channel)
	rec.Status = notification.Status(status)
	rec.CreatedAt = rec.CreatedAt.UTC()
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &rec.Meta); err != nil {
			return notification.Record{}, err
		}
	}
	return rec, nil
}
