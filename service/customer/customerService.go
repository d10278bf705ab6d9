package customersvc

import (
	"context"
	"time"

	"videostore/model"
	"videostore/util/database"
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

type Service interface {
	Add(ctx context.Context, req model.CustomerReq) (*model.Customer, error)
	Update(ctx context.Context, id int64, req model.CustomerReq) (*model.Customer, error)
	Remove(ctx context.Context, id int64) error
	List(ctx context.Context, page model.PageRequest) (*model.Page[model.Customer], error)
	Summaries(ctx context.Context) ([]model.CustomerSummary, error)
}

type service struct {
	db  database.Conn
	r   Repo
	now func() time.Time
}

type Option func(*service)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func New(db database.Conn, r Repo, opts ...Option) Service {
	s := &service{db: db, r: r, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) Add(ctx context.Context, req model.CustomerReq) (*model.Customer, error) {
	c, err := model.NewCustomer(req.Name, req.Cpf, req.BirthDate, s.now())
	if err != nil {
		return nil, err
	}

	err = s.db.InTx(ctx, func(tx database.Querier) error {
		taken, err := s.r.ByCpf(ctx, tx, c.Cpf)
		if err != nil {
			return err
		}
		if taken != nil {
			return cpfTaken(c.Cpf)
		}
		return mapUnique(s.r.Insert(ctx, tx, c), c.Cpf)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id int64, req model.CustomerReq) (*model.Customer, error) {
	var c *model.Customer
	err := s.db.InTx(ctx, func(tx database.Querier) error {
		var err error
		c, err = s.r.ByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(id)
		}

		cpf, err := model.NewCpf(req.Cpf)
		if err != nil {
			return err
		}
		existing, err := s.r.ByCpf(ctx, tx, cpf)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return cpfTaken(cpf)
		}

		if err := c.Change(req.Name, req.Cpf, req.BirthDate, s.now()); err != nil {
			return err
		}
		return mapUnique(s.r.Update(ctx, tx, c), c.Cpf)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	return s.db.InTx(ctx, func(tx database.Querier) error {
		c, err := s.r.ByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(id)
		}
		return s.r.Delete(ctx, tx, id)
	})
}

func (s *service) List(ctx context.Context, page model.PageRequest) (*model.Page[model.Customer], error) {
	page = page.Normalize()
	list, total, err := s.r.List(ctx, s.db, page)
	if err != nil {
		return nil, err
	}
	return &model.Page[model.Customer]{
		List:         list,
		TotalResults: total,
		PageIndex:    page.Index,
		PageSize:     page.Size,
		Query:        page.Query,
	}, nil
}

func (s *service) Summaries(ctx context.Context) ([]model.CustomerSummary, error) {
	return s.r.Summaries(ctx, s.db)
}

func notFound(id int64) error {
	return model.Errorf(model.ErrNotFound, "Customer with Id '%d' not found.", id)
}

func cpfTaken(cpf model.Cpf) error {
	return model.Errorf(model.ErrDuplicateCpf, "Cpf '%s' already taken.", cpf)
}

// mapUnique covers the window between the Cpf lookup and the write.
func mapUnique(err error, cpf model.Cpf) error {
	if c, ok := database.UniqueViolation(err); ok && c == database.ConstraintCustomerCpf {
		return cpfTaken(cpf)
	}
	return err
}
