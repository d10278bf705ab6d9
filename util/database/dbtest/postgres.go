package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"videostore/util/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// EnvDSN names the Postgres the repository tests run against. Tests skip
// when it is unset.
const EnvDSN = "TEST_DATABASE_URL"

// Open connects to the test database inside its own schema, so packages
// tested in parallel do not truncate each other's rows, and empties the
// tables.
func Open(t testing.TB, schema string) *database.DB {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "error connecting to DB pool in test setup")
	_, err = admin.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize())
	admin.Close()
	require.NoError(t, err, "error creating the test schema")

	db, err := database.New(ctx, dsn, database.Options{Attempts: 1, Schema: schema})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	CleanUp(t, db)
	return db
}

func CleanUp(t testing.TB, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), "TRUNCATE TABLE rentals, movies, customers RESTART IDENTITY")
	require.NoError(t, err, "error cleaning up the tables")
}

func GivenCustomer(t testing.TB, q database.Querier, name, cpf, birthDate string) int64 {
	t.Helper()
	var id int64
	err := q.QueryRow(context.Background(),
		`INSERT INTO customers (name, cpf, birth_date) VALUES ($1, $2, $3::date) RETURNING id`,
		name, cpf, birthDate,
	).Scan(&id)
	require.NoError(t, err, "given customer %s", name)
	return id
}

func GivenMovie(t testing.TB, q database.Querier, id int64, title string, launch bool) {
	t.Helper()
	_, err := q.Exec(context.Background(),
		`INSERT INTO movies (id, title, parental_rating, launch) VALUES ($1, $2, 12, $3)`,
		id, title, launch,
	)
	require.NoError(t, err, "given movie %s", title)
}

// GivenRental inserts a rental; an empty returned leaves it open.
func GivenRental(t testing.TB, q database.Querier, customerID, movieID int64, rented, returned string) int64 {
	t.Helper()
	var ret *string
	if returned != "" {
		ret = &returned
	}
	var id int64
	err := q.QueryRow(context.Background(),
		`INSERT INTO rentals (customer_id, movie_id, rental_date, return_date)
		VALUES ($1, $2, $3::date, $4::date) RETURNING id`,
		customerID, movieID, rented, ret,
	).Scan(&id)
	require.NoError(t, err, "given rental of movie %d", movieID)
	return id
}
