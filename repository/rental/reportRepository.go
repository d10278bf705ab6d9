package rental

import (
	"context"
	"errors"

	"videostore/model"
	customerrepo "videostore/repository/customer"
	"videostore/util/database"

	"github.com/jackc/pgx/v5"
)

func (r *repo) LateCustomers(ctx context.Context, q database.Querier, today model.Date, p model.LatePolicy) ([]model.Customer, error) {
	const sql = `
		SELECT c.id, c.name, c.cpf, c.birth_date
		FROM rentals r
		JOIN customers c ON c.id = r.customer_id
		JOIN movies m ON m.id = r.movie_id
		WHERE r.return_date IS NULL
		AND ($1::date - r.rental_date) > CASE WHEN m.launch THEN $2::int ELSE $3::int END
		GROUP BY c.id, c.name, c.cpf, c.birth_date
		ORDER BY MIN(r.rental_date), c.id`
	rows, err := q.Query(ctx, sql, today.Time(), p.LaunchDays, p.NonLaunchDays)
	if err != nil {
		return nil, err
	}
	return collectCustomers(rows)
}

func (r *repo) NeverRentedMovies(ctx context.Context, q database.Querier) ([]model.Movie, error) {
	const sql = `
		SELECT m.id, m.title, m.parental_rating, m.launch
		FROM movies m
		WHERE NOT EXISTS (
			SELECT 1 FROM rentals r
			WHERE r.movie_id = m.id)
		ORDER BY m.id`
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// MostRentedMovies ranks movies rented in [from, to] by rental count, highest
// first.
func (r *repo) MostRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error) {
	const sql = `
		SELECT m.id, m.title, m.parental_rating, m.launch
		FROM movies m
		JOIN rentals r ON r.movie_id = m.id
		WHERE r.rental_date BETWEEN $1 AND $2
		GROUP BY m.id
		ORDER BY COUNT(*) DESC, m.id
		LIMIT $3`
	rows, err := q.Query(ctx, sql, from.Time(), to.Time(), limit)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// LeastRentedMovies ranks movies rented in [from, to] by rental count, lowest
// first. Movies without rentals in the window are not candidates.
func (r *repo) LeastRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error) {
	const sql = `
		SELECT m.id, m.title, m.parental_rating, m.launch
		FROM movies m
		JOIN rentals r ON r.movie_id = m.id
		WHERE r.rental_date BETWEEN $1 AND $2
		GROUP BY m.id
		ORDER BY COUNT(*) ASC, m.id
		LIMIT $3`
	rows, err := q.Query(ctx, sql, from.Time(), to.Time(), limit)
	if err != nil {
		return nil, err
	}
	return collectMovies(rows)
}

// CustomerByRank returns the customer at the 1-based position when ranked
// by total rentals, or nil when fewer customers ever rented.
func (r *repo) CustomerByRank(ctx context.Context, q database.Querier, position int) (*model.Customer, error) {
	const sql = `
		SELECT c.id, c.name, c.cpf, c.birth_date
		FROM customers c
		JOIN rentals r ON r.customer_id = c.id
		GROUP BY c.id
		ORDER BY COUNT(*) DESC, c.id
		LIMIT 1 OFFSET $1`
	c, err := customerrepo.Scan(q.QueryRow(ctx, sql, position-1))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func collectCustomers(rows pgx.Rows) ([]model.Customer, error) {
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := customerrepo.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func collectMovies(rows pgx.Rows) ([]model.Movie, error) {
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ParentalRating, &m.Launch); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
