package reportsvc_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"videostore/model"
	reportsvc "videostore/service/report"
	"videostore/util/database"
	"videostore/util/database/dbtest"
	"videostore/util/spreadsheet"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type window struct {
	from, to string
	limit    int
}

type repoMock struct {
	mu    sync.Mutex
	calls map[string]window
	fail  error

	late   []model.Customer
	never  []model.Movie
	most   []model.Movie
	least  []model.Movie
	ranked *model.Customer
}

func (m *repoMock) record(name string, w window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]window{}
	}
	m.calls[name] = w
}

func (m *repoMock) LateCustomers(_ context.Context, _ database.Querier, today model.Date, _ model.LatePolicy) ([]model.Customer, error) {
	m.record("late", window{to: today.String()})
	return m.late, m.fail
}
func (m *repoMock) NeverRentedMovies(context.Context, database.Querier) ([]model.Movie, error) {
	m.record("never", window{})
	return m.never, nil
}
func (m *repoMock) MostRentedMovies(_ context.Context, _ database.Querier, from, to model.Date, limit int) ([]model.Movie, error) {
	m.record("most", window{from.String(), to.String(), limit})
	return m.most, nil
}
func (m *repoMock) LeastRentedMovies(_ context.Context, _ database.Querier, from, to model.Date, limit int) ([]model.Movie, error) {
	m.record("least", window{from.String(), to.String(), limit})
	return m.least, nil
}
func (m *repoMock) CustomerByRank(_ context.Context, _ database.Querier, position int) (*model.Customer, error) {
	m.record("rank", window{limit: position})
	return m.ranked, nil
}

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func TestGenerate_Windows(t *testing.T) {
	m := &repoMock{
		never:  []model.Movie{{ID: 2, Title: "B"}, {ID: 3, Title: "C"}},
		ranked: &model.Customer{ID: 4, Name: "Bia"},
	}
	s := reportsvc.New(&dbtest.Conn{}, m, model.LatePolicy{LaunchDays: 2, NonLaunchDays: 3}, reportsvc.WithClock(clock))

	rep, err := s.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.NeverRentedMovies, 2)
	require.Equal(t, "Bia", rep.RankedCustomer.Name)
	require.Equal(t, 2, rep.RankedCustomerNumber)

	require.Equal(t, window{to: "2024-03-15"}, m.calls["late"])
	require.Equal(t, window{"2024-01-01", "2024-12-31", 5}, m.calls["most"])
	require.Equal(t, window{"2024-03-08", "2024-03-15", 3}, m.calls["least"])
	require.Equal(t, 2, m.calls["rank"].limit)
}

func TestGenerate_Options(t *testing.T) {
	m := &repoMock{}
	s := reportsvc.New(&dbtest.Conn{}, m, model.LatePolicy{}, reportsvc.WithClock(clock),
		reportsvc.WithTopN(10), reportsvc.WithBottomN(1), reportsvc.WithWindowDays(30), reportsvc.WithRank(3))

	rep, err := s.Generate(context.Background())
	require.NoError(t, err)
	require.Nil(t, rep.RankedCustomer)
	require.Equal(t, 10, m.calls["most"].limit)
	require.Equal(t, window{"2024-02-14", "2024-03-15", 1}, m.calls["least"])
	require.Equal(t, 3, m.calls["rank"].limit)
}

func TestGenerate_OutOfRangeOptionsKeepDefaults(t *testing.T) {
	for _, rank := range []int{0, -1} {
		m := &repoMock{}
		s := reportsvc.New(&dbtest.Conn{}, m, model.LatePolicy{}, reportsvc.WithClock(clock),
			reportsvc.WithRank(rank), reportsvc.WithTopN(-1), reportsvc.WithBottomN(-4), reportsvc.WithWindowDays(-7))

		rep, err := s.Generate(context.Background())
		require.NoError(t, err)
		require.Equal(t, 2, rep.RankedCustomerNumber)
		require.Equal(t, 2, m.calls["rank"].limit)
		require.Equal(t, 5, m.calls["most"].limit)
		require.Equal(t, window{"2024-03-08", "2024-03-15", 3}, m.calls["least"])
	}
}

func TestGenerate_DatasetError(t *testing.T) {
	boom := errors.New("boom")
	s := reportsvc.New(&dbtest.Conn{}, &repoMock{fail: boom}, model.LatePolicy{}, reportsvc.WithClock(clock))
	_, err := s.Generate(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "late customers")
}

func TestExport(t *testing.T) {
	m := &repoMock{
		late:  []model.Customer{{ID: 1, Name: "Ana", Cpf: "111", BirthDate: model.DateOf(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC))}},
		never: []model.Movie{{ID: 3, Title: "C", ParentalRating: 12}},
	}
	s := reportsvc.New(&dbtest.Conn{}, m, model.LatePolicy{}, reportsvc.WithClock(clock))

	body, err := s.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(spreadsheet.SheetLateCustomers)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Id", "Name", "CPF", "Birth Date"}, {"1", "Ana", "111", "1990-05-17"}}, rows)
}
