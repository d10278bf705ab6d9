package moviesvc

import (
	"context"

	"videostore/model"
	"videostore/util/database"
)

type Repo interface {
	ExistingIDs(ctx context.Context, q database.Querier, ids []int64) (map[int64]bool, error)
	InsertBatch(ctx context.Context, q database.Querier, movies []model.Movie) (int64, error)

	List(ctx context.Context, q database.Querier, page model.PageRequest) ([]model.Movie, int, error)
	Summaries(ctx context.Context, q database.Querier) ([]model.MovieSummary, error)
}

type Service interface {
	// Import adds the whole batch or nothing.
	Import(ctx context.Context, rows []model.MovieRow) ([]model.Movie, error)
	List(ctx context.Context, page model.PageRequest) (*model.Page[model.Movie], error)
	Summaries(ctx context.Context) ([]model.MovieSummary, error)
}

type service struct {
	db database.Conn
	r  Repo
}

func New(db database.Conn, r Repo) Service { return &service{db: db, r: r} }

func (s *service) Import(ctx context.Context, rows []model.MovieRow) ([]model.Movie, error) {
	if len(rows) == 0 {
		return nil, model.Errorf(model.ErrImportFormat, "Csv file has no movies.")
	}

	movies := make([]model.Movie, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if seen[row.ID] {
			return nil, duplicated(row)
		}
		seen[row.ID] = true
		ids = append(ids, row.ID)
		movies = append(movies, row.Movie())
	}

	err := s.db.InTx(ctx, func(tx database.Querier) error {
		existing, err := s.r.ExistingIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if existing[row.ID] {
				return duplicated(row)
			}
		}

		_, err = s.r.InsertBatch(ctx, tx, movies)
		if c, ok := database.UniqueViolation(err); ok && c == database.ConstraintMoviePK {
			return model.Wrap(model.ErrDuplicateID, err, "Movie ids already exist in the catalog.")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *service) List(ctx context.Context, page model.PageRequest) (*model.Page[model.Movie], error) {
	page = page.Normalize()
	list, total, err := s.r.List(ctx, s.db, page)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Movie]{
		List:         list,
		TotalResults: total,
		PageIndex:    page.Index,
		PageSize:     page.Size,
		Query:        page.Query,
	}, nil
}

func (s *service) Summaries(ctx context.Context) ([]model.MovieSummary, error) {
	return s.r.Summaries(ctx, s.db)
}

func duplicated(row model.MovieRow) error {
	return model.Errorf(model.ErrDuplicateID, "Title '%s' has Id '%d' duplicated.", row.Title, row.ID)
}
