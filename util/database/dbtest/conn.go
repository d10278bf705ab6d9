// Package dbtest has an in-process stand-in for database.Conn. Repositories
// are mocked in service tests, so the Querier methods are never meant to
// run.
package dbtest

import (
	"context"
	"errors"

	"videostore/util/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errNoSQL = errors.New("dbtest: no SQL expected")

// Conn runs InTx bodies inline and counts how they ended.
type Conn struct {
	Commits   int
	Rollbacks int
}

var _ database.Conn = (*Conn)(nil)

func (c *Conn) InTx(_ context.Context, fn func(tx database.Querier) error) error {
	if err := fn(c); err != nil {
		c.Rollbacks++
		return err
	}
	c.Commits++
	return nil
}

func (c *Conn) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errNoSQL
}

func (c *Conn) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, errNoSQL }

func (c *Conn) QueryRow(context.Context, string, ...any) pgx.Row { return errRow{} }

func (c *Conn) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errNoSQL
}

type errRow struct{}

func (errRow) Scan(...any) error { return errNoSQL }

// UniqueViolation builds the error Postgres raises for constraint.
func UniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}
