// Package pg bootstraps a pgx connection pool and applies goose migrations
// from an embedded filesystem.
//
// The package keeps a small surface: Connect for the pool, Migrate for the
// schema, Healthcheck for readiness, and a few predicates over driver
// errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//	    return err
//	}
package pg
