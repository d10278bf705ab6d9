package customersvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"videostore/model"
	customersvc "videostore/service/customer"
	"videostore/util/database"
	"videostore/util/database/dbtest"

	"github.com/stretchr/testify/require"
)

type repoMock struct {
	byIDFn      func(id int64) (*model.Customer, error)
	byCpfFn     func(cpf model.Cpf) (*model.Customer, error)
	insertFn    func(c *model.Customer) error
	updateFn    func(c *model.Customer) error
	deleteFn    func(id int64) error
	listFn      func(page model.PageRequest) ([]model.Customer, int, error)
	summariesFn func() ([]model.CustomerSummary, error)
}

func (m *repoMock) ByID(_ context.Context, _ database.Querier, id int64) (*model.Customer, error) {
	return m.byIDFn(id)
}
func (m *repoMock) ByCpf(_ context.Context, _ database.Querier, cpf model.Cpf) (*model.Customer, error) {
	return m.byCpfFn(cpf)
}
func (m *repoMock) Insert(_ context.Context, _ database.Querier, c *model.Customer) error {
	return m.insertFn(c)
}
func (m *repoMock) Update(_ context.Context, _ database.Querier, c *model.Customer) error {
	return m.updateFn(c)
}
func (m *repoMock) Delete(_ context.Context, _ database.Querier, id int64) error {
	return m.deleteFn(id)
}
func (m *repoMock) List(_ context.Context, _ database.Querier, page model.PageRequest) ([]model.Customer, int, error) {
	return m.listFn(page)
}
func (m *repoMock) Summaries(context.Context, database.Querier) ([]model.CustomerSummary, error) {
	return m.summariesFn()
}

var now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newSvc(m *repoMock) (customersvc.Service, *dbtest.Conn) {
	db := &dbtest.Conn{}
	return customersvc.New(db, m, customersvc.WithClock(func() time.Time { return now })), db
}

func noCpf(model.Cpf) (*model.Customer, error) { return nil, nil }

func TestAdd_Success(t *testing.T) {
	m := &repoMock{
		byCpfFn: noCpf,
		insertFn: func(c *model.Customer) error {
			c.ID = 7
			return nil
		},
	}
	s, db := newSvc(m)

	c, err := s.Add(context.Background(), model.CustomerReq{Name: "Ana", Cpf: "12345678901", BirthDate: "1990-05-17"})
	require.NoError(t, err)
	require.Equal(t, int64(7), c.ID)
	require.Equal(t, "1990-05-17", c.BirthDate.String())
	require.Equal(t, 1, db.Commits)
}

func TestAdd_DuplicateCpf(t *testing.T) {
	inserted := false
	m := &repoMock{
		byCpfFn:  func(model.Cpf) (*model.Customer, error) { return &model.Customer{ID: 1}, nil },
		insertFn: func(*model.Customer) error { inserted = true; return nil },
	}
	s, db := newSvc(m)

	_, err := s.Add(context.Background(), model.CustomerReq{Name: "Bia", Cpf: "12345678901", BirthDate: "1991-01-01"})
	require.Equal(t, model.ErrDuplicateCpf, model.Code(err))
	require.False(t, inserted)
	require.Equal(t, 1, db.Rollbacks)
}

func TestAdd_DuplicateCpfRace(t *testing.T) {
	m := &repoMock{
		byCpfFn:  noCpf,
		insertFn: func(*model.Customer) error { return dbtest.UniqueViolation(database.ConstraintCustomerCpf) },
	}
	s, _ := newSvc(m)

	_, err := s.Add(context.Background(), model.CustomerReq{Name: "Bia", Cpf: "1", BirthDate: "1991-01-01"})
	require.Equal(t, model.ErrDuplicateCpf, model.Code(err))
}

func TestAdd_FutureBirthDate(t *testing.T) {
	s, db := newSvc(&repoMock{})
	_, err := s.Add(context.Background(), model.CustomerReq{Name: "Ana", Cpf: "1", BirthDate: "2024-03-16"})
	require.Equal(t, model.ErrValidation, model.Code(err))
	require.Zero(t, db.Commits+db.Rollbacks, "rejected before opening a transaction")
}

func TestUpdate(t *testing.T) {
	existing := func() *model.Customer {
		c, err := model.NewCustomer("Ana", "111", "1990-01-01", now)
		if err != nil {
			panic(err)
		}
		c.ID = 3
		return c
	}

	t.Run("not found", func(t *testing.T) {
		s, _ := newSvc(&repoMock{byIDFn: func(int64) (*model.Customer, error) { return nil, nil }})
		_, err := s.Update(context.Background(), 3, model.CustomerReq{Name: "A", Cpf: "1", BirthDate: "1990-01-01"})
		require.Equal(t, model.ErrNotFound, model.Code(err))
		require.EqualError(t, err, "Customer with Id '3' not found.")
	})

	t.Run("cpf of another customer", func(t *testing.T) {
		s, _ := newSvc(&repoMock{
			byIDFn:  func(int64) (*model.Customer, error) { return existing(), nil },
			byCpfFn: func(model.Cpf) (*model.Customer, error) { return &model.Customer{ID: 9}, nil },
		})
		_, err := s.Update(context.Background(), 3, model.CustomerReq{Name: "A", Cpf: "222", BirthDate: "1990-01-01"})
		require.Equal(t, model.ErrDuplicateCpf, model.Code(err))
	})

	t.Run("keeping own cpf", func(t *testing.T) {
		var saved *model.Customer
		s, _ := newSvc(&repoMock{
			byIDFn:   func(int64) (*model.Customer, error) { return existing(), nil },
			byCpfFn:  func(model.Cpf) (*model.Customer, error) { return existing(), nil },
			updateFn: func(c *model.Customer) error { saved = c; return nil },
		})
		out, err := s.Update(context.Background(), 3, model.CustomerReq{Name: "Ana Maria", Cpf: "111", BirthDate: "1990-02-02"})
		require.NoError(t, err)
		require.Equal(t, "Ana Maria", saved.Name)
		require.Equal(t, "1990-02-02", out.BirthDate.String())
	})
}

func TestRemove(t *testing.T) {
	deleted := int64(0)
	s, _ := newSvc(&repoMock{
		byIDFn:   func(id int64) (*model.Customer, error) { return &model.Customer{ID: id}, nil },
		deleteFn: func(id int64) error { deleted = id; return nil },
	})
	require.NoError(t, s.Remove(context.Background(), 5))
	require.Equal(t, int64(5), deleted)

	s, _ = newSvc(&repoMock{byIDFn: func(int64) (*model.Customer, error) { return nil, nil }})
	require.Equal(t, model.ErrNotFound, model.Code(s.Remove(context.Background(), 5)))
}

func TestList_NormalizesPage(t *testing.T) {
	var got model.PageRequest
	s, _ := newSvc(&repoMock{
		listFn: func(p model.PageRequest) ([]model.Customer, int, error) {
			got = p
			return []model.Customer{{ID: 1, Name: "Ana"}}, 11, nil
		},
	})
	page, err := s.List(context.Background(), model.PageRequest{Query: "an"})
	require.NoError(t, err)
	require.Equal(t, model.DefaultPageSize, got.Size)
	require.Equal(t, 1, got.Index)
	require.Equal(t, 11, page.TotalResults)
	require.Equal(t, "an", page.Query)
}

func TestList_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s, _ := newSvc(&repoMock{listFn: func(model.PageRequest) ([]model.Customer, int, error) { return nil, 0, boom }})
	_, err := s.List(context.Background(), model.PageRequest{})
	require.ErrorIs(t, err, boom)
}
