package movierepo

import (
	"context"
	"errors"

	"videostore/model"
	"videostore/util/database"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
)

type Repo interface {
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Movie, error)
	ExistingIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]bool, error)
	InsertBatch(ctx context.Context, q database.Querier, movies []model.Movie) (int64, error)

	List(ctx context.Context, q database.Querier, page model.PageRequest) ([]model.Movie, int, error)
	Summaries(ctx context.Context, q database.Querier) ([]model.MovieSummary, error)
}

type repo struct{}

func New() Repo { return &repo{} }

func (r *repo) ByID(ctx context.Context, q database.Querier, id int64) (*model.Movie, error) {
	const sql = `
		SELECT id, title, parental_rating, launch
		FROM movies
		WHERE id = $1`
	var m model.Movie
	err := q.QueryRow(ctx, sql, id).Scan(&m.ID, &m.Title, &m.ParentalRating, &m.Launch)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) ExistingIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT id FROM movies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

// InsertBatch bulk loads movies with COPY. Run it inside a transaction to
// keep the import all-or-nothing.
func (r *repo) InsertBatch(ctx context.Context, q database.Querier, movies []model.Movie) (int64, error) {
	return q.CopyFrom(ctx,
		pgx.Identifier{"movies"},
		[]string{"id", "title", "parental_rating", "launch"},
		pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
			m := movies[i]
			return []any{m.ID, m.Title, m.ParentalRating, m.Launch}, nil
		}),
	)
}

func (r *repo) List(ctx context.Context, q database.Querier, page model.PageRequest) ([]model.Movie, int, error) {
	ds := database.Dialect.From("movies")
	if page.Query != "" {
		ds = ds.Where(goqu.C("title").ILike(database.Contains(page.Query)))
	}

	out := make([]model.Movie, 0, page.Size)
	total, err := database.PageQuery{
		From:    ds,
		CountOn: "id",
		Columns: []any{"id", "title", "parental_rating", "launch"},
		Order:   []exp.OrderedExpression{goqu.C("title").Asc(), goqu.C("id").Asc()},
		Limit:   page.Size,
		Offset:  page.Offset(),
	}.Run(ctx, q, func(rows pgx.Rows) error {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ParentalRating, &m.Launch); err != nil {
			return err
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repo) Summaries(ctx context.Context, q database.Querier) ([]model.MovieSummary, error) {
	rows, err := q.Query(ctx, `SELECT id, title FROM movies ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.MovieSummary])
}
