package moviesvc_test

import (
	"context"
	"testing"

	"videostore/model"
	moviesvc "videostore/service/movie"
	"videostore/util/database"
	"videostore/util/database/dbtest"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	existingFn  func(ids []int64) (map[int64]bool, error)
	insertFn    func(movies []model.Movie) (int64, error)
	listFn      func(page model.PageRequest) ([]model.Movie, int, error)
	summariesFn func() ([]model.MovieSummary, error)
}

func (m *repoMock) ExistingIDs(_ context.Context, _ database.Querier, ids []int64) (map[int64]bool, error) {
	return m.existingFn(ids)
}
func (m *repoMock) InsertBatch(_ context.Context, _ database.Querier, movies []model.Movie) (int64, error) {
	return m.insertFn(movies)
}
func (m *repoMock) List(_ context.Context, _ database.Querier, page model.PageRequest) ([]model.Movie, int, error) {
	return m.listFn(page)
}
func (m *repoMock) Summaries(context.Context, database.Querier) ([]model.MovieSummary, error) {
	return m.summariesFn()
}

var rows = []model.MovieRow{
	{ID: 1, Title: "Alien", ParentalRating: 16, Launch: false},
	{ID: 2, Title: "Dune", ParentalRating: 12, Launch: true},
}

func TestImport_Success(t *testing.T) {
	var inserted []model.Movie
	m := &repoMock{
		existingFn: func([]int64) (map[int64]bool, error) { return map[int64]bool{}, nil },
		insertFn: func(ms []model.Movie) (int64, error) {
			inserted = ms
			return int64(len(ms)), nil
		},
	}
	db := &dbtest.Conn{}
	out, err := moviesvc.New(db, m).Import(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, out, inserted)
	require.True(t, out[1].Launch)
	require.Equal(t, 1, db.Commits)
}

func TestImport_IdAlreadyInCatalog(t *testing.T) {
	called := false
	m := &repoMock{
		existingFn: func([]int64) (map[int64]bool, error) { return map[int64]bool{2: true}, nil },
		insertFn:   func([]model.Movie) (int64, error) { called = true; return 0, nil },
	}
	db := &dbtest.Conn{}
	_, err := moviesvc.New(db, m).Import(context.Background(), rows)
	require.Equal(t, model.ErrDuplicateID, model.Code(err))
	require.EqualError(t, err, "Title 'Dune' has Id '2' duplicated.")
	require.False(t, called, "nothing is inserted")
	require.Equal(t, 1, db.Rollbacks)
}

func TestImport_IdRepeatedInFile(t *testing.T) {
	m := &repoMock{}
	batch := append([]model.MovieRow{}, rows...)
	batch = append(batch, model.MovieRow{ID: 1, Title: "Alien 2"})

	_, err := moviesvc.New(&dbtest.Conn{}, m).Import(context.Background(), batch)
	require.Equal(t, model.ErrDuplicateID, model.Code(err))
	require.Contains(t, err.Error(), "Alien 2")
}

func TestImport_PrimaryKeyRace(t *testing.T) {
	m := &repoMock{
		existingFn: func([]int64) (map[int64]bool, error) { return nil, nil },
		insertFn: func([]model.Movie) (int64, error) {
			return 0, dbtest.UniqueViolation(database.ConstraintMoviePK)
		},
	}
	_, err := moviesvc.New(&dbtest.Conn{}, m).Import(context.Background(), rows)
	require.Equal(t, model.ErrDuplicateID, model.Code(err))
}

func TestImport_Empty(t *testing.T) {
	_, err := moviesvc.New(&dbtest.Conn{}, &repoMock{}).Import(context.Background(), nil)
	require.Equal(t, model.ErrImportFormat, model.Code(err))
}

func TestSummaries(t *testing.T) {
	m := &repoMock{summariesFn: func() ([]model.MovieSummary, error) {
		return []model.MovieSummary{{ID: 1, Title: "Alien"}}, nil
	}}
	out, err := moviesvc.New(&dbtest.Conn{}, m).Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
}
