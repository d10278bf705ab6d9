// repository/rental/repo.go
package rental

import (
	"context"
	"errors"
	"time"

	"videostore/model"
	"videostore/util/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

type Repo interface {
	// Rentals
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Rental, error)
	OpenByMovie(ctx context.Context, q database.Querier, movieID int64) (*model.Rental, error)
	Insert(ctx context.Context, q database.Querier, r *model.Rental) error
	Update(ctx context.Context, q database.Querier, r *model.Rental) error
	Delete(ctx context.Context, q database.Querier, id int64) error

	// Listing
	List(ctx context.Context, q database.Querier, page model.PageRequest, on *model.Date) ([]model.RentalView, int, error)

	// Reports
	LateCustomers(ctx context.Context, q database.Querier, today model.Date, p model.LatePolicy) ([]model.Customer, error)
	NeverRentedMovies(ctx context.Context, q database.Querier) ([]model.Movie, error)
	MostRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error)
	LeastRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error)
	CustomerByRank(ctx context.Context, q database.Querier, position int) (*model.Customer, error)
}

type repo struct{}

func New() Repo { return &repo{} }

func scanRental(row pgx.Row) (*model.Rental, error) {
	var (
		r        model.Rental
		rentedAt time.Time
		returned *time.Time
	)
	if err := row.Scan(&r.ID, &r.CustomerID, &r.MovieID, &rentedAt, &returned); err != nil {
		return nil, err
	}
	r.RentalDate = model.DateOf(rentedAt)
	if returned != nil {
		d := model.DateOf(*returned)
		r.ReturnDate = &d
	}
	return &r, nil
}

func oneRental(r *model.Rental, err error) (*model.Rental, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

func returnDate(r *model.Rental) *time.Time {
	if r.ReturnDate == nil {
		return nil
	}
	t := r.ReturnDate.Time()
	return &t
}

func (r *repo) ByID(ctx context.Context, q database.Querier, id int64) (*model.Rental, error) {
	const sql = `
		SELECT id, customer_id, movie_id, rental_date, return_date
		FROM rentals
		WHERE id = $1
		FOR UPDATE`
	return oneRental(scanRental(q.QueryRow(ctx, sql, id)))
}

func (r *repo) OpenByMovie(ctx context.Context, q database.Querier, movieID int64) (*model.Rental, error) {
	const sql = `
		SELECT id, customer_id, movie_id, rental_date, return_date
		FROM rentals
		WHERE movie_id = $1
		AND return_date IS NULL
		LIMIT 1`
	return oneRental(scanRental(q.QueryRow(ctx, sql, movieID)))
}

func (r *repo) Insert(ctx context.Context, q database.Querier, rt *model.Rental) error {
	const sql = `
		INSERT INTO rentals (customer_id, movie_id, rental_date, return_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return q.QueryRow(ctx, sql, rt.CustomerID, rt.MovieID, rt.RentalDate.Time(), returnDate(rt)).Scan(&rt.ID)
}

func (r *repo) Update(ctx context.Context, q database.Querier, rt *model.Rental) error {
	const sql = `
		UPDATE rentals
		SET customer_id = $2,
			movie_id = $3,
			rental_date = $4,
			return_date = $5
		WHERE id = $1`
	_, err := q.Exec(ctx, sql, rt.ID, rt.CustomerID, rt.MovieID, rt.RentalDate.Time(), returnDate(rt))
	return err
}

func (r *repo) Delete(ctx context.Context, q database.Querier, id int64) error {
	_, err := q.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	return err
}

// Listing

func (r *repo) List(ctx context.Context, q database.Querier, page model.PageRequest, on *model.Date) ([]model.RentalView, int, error) {
	ds := database.Dialect.
		From(goqu.T("rentals").As("r")).
		Join(goqu.T("customers").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("r.customer_id")))).
		Join(goqu.T("movies").As("m"), goqu.On(goqu.I("m.id").Eq(goqu.I("r.movie_id"))))
	if on != nil {
		ds = ds.Where(goqu.I("r.rental_date").Eq(on.Time()))
	}

	out := make([]model.RentalView, 0, page.Size)
	total, err := database.PageQuery{
		From:    ds,
		CountOn: "r.id",
		Columns: []any{
			goqu.I("r.id"), goqu.I("r.customer_id"), goqu.I("r.movie_id"), goqu.I("r.rental_date"), goqu.I("r.return_date"),
			goqu.I("c.name"), goqu.I("c.cpf"), goqu.I("c.birth_date"),
			goqu.I("m.title"), goqu.I("m.parental_rating"), goqu.I("m.launch"),
		},
		Order:  []exp.OrderedExpression{goqu.I("r.rental_date").Asc(), goqu.I("r.id").Asc()},
		Limit:  page.Size,
		Offset: page.Offset(),
	}.Run(ctx, q, func(rows pgx.Rows) error {
		var (
			v        model.RentalView
			rentedAt time.Time
			returned *time.Time
			cpf      string
			born     time.Time
		)
		if err := rows.Scan(
			&v.Rental.ID, &v.Rental.CustomerID, &v.Rental.MovieID, &rentedAt, &returned,
			&v.Customer.Name, &cpf, &born,
			&v.Movie.Title, &v.Movie.ParentalRating, &v.Movie.Launch,
		); err != nil {
			return err
		}
		v.Rental.RentalDate = model.DateOf(rentedAt)
		if returned != nil {
			d := model.DateOf(*returned)
			v.Rental.ReturnDate = &d
		}
		v.Customer.ID, v.Customer.Cpf, v.Customer.BirthDate = v.Rental.CustomerID, model.Cpf(cpf), model.DateOf(born)
		v.Movie.ID = v.Rental.MovieID
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
