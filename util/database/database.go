package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is what repositories run SQL against: the pool itself or a
// transaction opened by InTx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// Conn is the handle services hold.
type Conn interface {
	Querier
	InTx(ctx context.Context, fn func(tx Querier) error) error
}

type DB struct{ Pool *pgxpool.Pool }

var _ Conn = (*DB)(nil)

type Options struct {
	Attempts int
	Delay    time.Duration
	Log      *slog.Logger
	// Schema, when set, is the search_path of every connection.
	Schema string
}

// New opens a pool and waits for the server to answer a ping. Startup
// against a database that is still booting is retried with a linear
// backoff.
func New(ctx context.Context, dsn string, opt Options) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opt.Schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = opt.Schema
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if opt.Attempts <= 0 {
		opt.Attempts = 1
	}
	if opt.Log == nil {
		opt.Log = slog.Default()
	}

	for attempt := 1; ; attempt++ {
		err = p.Ping(ctx)
		if err == nil {
			break
		}
		if attempt >= opt.Attempts {
			p.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempt, err)
		}
		wait := opt.Delay * time.Duration(attempt)
		opt.Log.Warn("db ping failed, retrying", "attempt", attempt, "wait", wait.String(), "err", err)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		}
	}
	return &DB{Pool: p}, nil
}

func (db *DB) Close() { db.Pool.Close() }

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.Pool.Exec(ctx, sql, args...)
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.Pool.Query(ctx, sql, args...)
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.Pool.QueryRow(ctx, sql, args...)
}

func (db *DB) CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	return db.Pool.CopyFrom(ctx, table, columns, src)
}

// InTx runs fn inside one transaction. Any error from fn rolls back
// everything fn wrote; otherwise the transaction is committed.
func (db *DB) InTx(ctx context.Context, fn func(tx Querier) error) (err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UniqueViolation returns the violated constraint name when err is a
// Postgres unique violation.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
