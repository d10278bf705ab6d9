package database

import (
	"context"
	_ "embed"
)

const (
	ConstraintCustomerCpf = "customers_cpf_key"
	ConstraintMoviePK     = "movies_pkey"
	ConstraintOpenRental  = "rentals_open_movie_key"
)

//go:embed schema.sql
var schema string

// EnsureSchema creates the tables and indexes when they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, schema)
	return err
}
