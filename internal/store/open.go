package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/trustnotify/pkg/mongo"
	"github.com/dmitrymomot/trustnotify/pkg/pg"
)

const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config selects the backend. Only the chosen backend's settings are used.
type Config struct {
	Driver   string `env:"STORE_DRIVER" envDefault:"memory"`
	Mongo    mongo.Config
	Postgres pg.Config
}

// Open connects the configured backend. The postgres backend is migrated
// before it is returned.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (Store, error) {
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemory(), nil

	case DriverMongo:
		db, err := mongo.ConnectDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s, err := NewMongo(ctx, db)
		if err != nil {
			_ = db.Client().Disconnect(context.Background())
			return nil, err
		}
		return s, nil

	case DriverPostgres:
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool, cfg.Postgres, log); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgres(pool), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
