package customerrepo

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
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Customer, error)
	ByCpf(ctx context.Context, q database.Querier, cpf model.Cpf) (*model.Customer, error)
	Insert(ctx context.Context, q database.Querier, c *model.Customer) error
	Update(ctx context.Context, q database.Querier, c *model.Customer) error
	Delete(ctx context.Context, q database.Querier, id int64) error

	List(ctx context.Context, q database.Querier, page model.PageRequest) ([]model.Customer, int, error)
	Summaries(ctx context.Context, q database.Querier) ([]model.CustomerSummary, error)
}

type repo struct{}

func New() Repo { return &repo{} }

const customerCols = `id, name, cpf, birth_date`

// Scan reads the customer columns in customerCols order.
func Scan(row pgx.Row) (*model.Customer, error) {
	var (
		c  model.Customer
		s  string
		bd time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &s, &bd); err != nil {
		return nil, err
	}
	c.Cpf = model.Cpf(s)
	c.BirthDate = model.DateOf(bd)
	return &c, nil
}

func (r *repo) ByID(ctx context.Context, q database.Querier, id int64) (*model.Customer, error) {
	const sql = `SELECT ` + customerCols + ` FROM customers WHERE id = $1`
	return one(Scan(q.QueryRow(ctx, sql, id)))
}

func (r *repo) ByCpf(ctx context.Context, q database.Querier, cpf model.Cpf) (*model.Customer, error) {
	const sql = `SELECT ` + customerCols + ` FROM customers WHERE cpf = $1`
	return one(Scan(q.QueryRow(ctx, sql, cpf.String())))
}

// one turns a missing row into a nil customer.
func one(c *model.Customer, err error) (*model.Customer, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *repo) Insert(ctx context.Context, q database.Querier, c *model.Customer) error {
	const sql = `
		INSERT INTO customers (name, cpf, birth_date)
		VALUES ($1, $2, $3)
		RETURNING id`
	return q.QueryRow(ctx, sql, c.Name, c.Cpf.String(), c.BirthDate.Time()).Scan(&c.ID)
}

func (r *repo) Update(ctx context.Context, q database.Querier, c *model.Customer) error {
	const sql = `
		UPDATE customers
		SET name = $2,
			cpf = $3,
			birth_date = $4
		WHERE id = $1`
	_, err := q.Exec(ctx, sql, c.ID, c.Name, c.Cpf.String(), c.BirthDate.Time())
	return err
}

// Delete removes the customer; rentals go with it through the FK cascade.
func (r *repo) Delete(ctx context.Context, q database.Querier, id int64) error {
	_, err := q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func (r *repo) List(ctx context.Context, q database.Querier, page model.PageRequest) ([]model.Customer, int, error) {
	ds := database.Dialect.From("customers")
	if page.Query != "" {
		ds = ds.Where(goqu.C("name").ILike(database.Contains(page.Query)))
	}

	out := make([]model.Customer, 0, page.Size)
	total, err := database.PageQuery{
		From:    ds,
		CountOn: "id",
		Columns: []any{"id", "name", "cpf", "birth_date"},
		Order:   []exp.OrderedExpression{goqu.C("name").Asc(), goqu.C("id").Asc()},
		Limit:   page.Size,
		Offset:  page.Offset(),
	}.Run(ctx, q, func(rows pgx.Rows) error {
		c, err := Scan(rows)
		if err != nil {
			return err
		}
		out = append(out, *c)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repo) Summaries(ctx context.Context, q database.Querier) ([]model.CustomerSummary, error) {
	rows, err := q.Query(ctx, `SELECT id, name FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.CustomerSummary])
}
