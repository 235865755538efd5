// Package database centralises sqlx connection helpers.  The default
// driver is go-sql-driver/mysql, which also works with MariaDB when
// configured for the MySQL wire protocol.
//
// Public entry points:
//
//	Open(ctx, dsn)                      – conservative pool defaults.
//	OpenWithOptions(ctx, dsn, opts)     – fine-grained control.
//
// Both helpers ping the database before returning so callers fail fast
// during bootstrap; transient failures are retried with a fixed backoff.
// The DSN must carry `parseTime=true` so timestamp columns scan into
// time.Time.  Callers should Close() the returned *sqlx.DB when done.
package database

import (
	"context"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// Options tunes one connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// DefaultOptions suits a single process-wide pool.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         2,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// Open returns a *sqlx.DB with the default pool sizes.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, dsn, DefaultOptions())
}

// OpenWithOptions opens, tunes, and pings a pool, retrying the ping a few
// times before giving up.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	for attempt := 0; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.Retries {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryBackoff):
		}
	}
	_ = db.Close()
	return nil, err
}
