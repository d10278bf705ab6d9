package rental

import (
	"context"
	"strings"
	"time"

	"videostore/model"
	"videostore/util/database"
)

type Repo interface {
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Rental, error)
	OpenByMovie(ctx context.Context, q database.Querier, movieID int64) (*model.Rental, error)
	Insert(ctx context.Context, q database.Querier, r *model.Rental) error
	Update(ctx context.Context, q database.Querier, r *model.Rental) error
	Delete(ctx context.Context, q database.Querier, id int64) error

	List(ctx context.Context, q database.Querier, page model.PageRequest, on *model.Date) ([]model.RentalView, int, error)
}

type Customers interface {
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Customer, error)
}

type Movies interface {
	ByID(ctx context.Context, q database.Querier, id int64) (*model.Movie, error)
}

type Service interface {
	// Add checks the movie out to a customer. A return date may close the
	// rental right away.
	Add(ctx context.Context, req model.RentalReq) (*model.Rental, error)

	// Update replaces every field; omitting the return date reopens it.
	Update(ctx context.Context, id int64, req model.RentalReq) (*model.Rental, error)

	Remove(ctx context.Context, id int64) error

	// List pages rentals by rental date; Query, when set, must be a date.
	List(ctx context.Context, page model.PageRequest) (*model.Page[model.RentalView], error)
}

// ----- Service implementation -----

type service struct {
	db     database.Conn
	r      Repo
	c      Customers
	m      Movies
	policy model.LatePolicy
	now    func() time.Time
}

type Option func(*service)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func New(db database.Conn, r Repo, c Customers, m Movies, policy model.LatePolicy, opts ...Option) Service {
	s := &service{db: db, r: r, c: c, m: m, policy: policy, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) Add(ctx context.Context, req model.RentalReq) (*model.Rental, error) {
	rental := &model.Rental{CustomerID: req.CustomerID, MovieID: req.MovieID}

	err := s.db.InTx(ctx, func(tx database.Querier) error {
		if err := s.checkRefs(ctx, tx, req); err != nil {
			return err
		}

		rented, err := s.r.OpenByMovie(ctx, tx, req.MovieID)
		if err != nil {
			return err
		}
		if rented != nil {
			return alreadyRented(req.MovieID)
		}

		if err := rental.SetDates(req.RentalDate, req.ReturnDate, s.now()); err != nil {
			return err
		}
		return mapOpenRental(s.r.Insert(ctx, tx, rental), req.MovieID)
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Update(ctx context.Context, id int64, req model.RentalReq) (*model.Rental, error) {
	var rental *model.Rental

	err := s.db.InTx(ctx, func(tx database.Querier) error {
		var err error
		rental, err = s.r.ByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if rental == nil {
			return model.Errorf(model.ErrNotFound, "Rental with Id '%d' not found.", id)
		}
		if err := s.checkRefs(ctx, tx, req); err != nil {
			return err
		}

		rented, err := s.r.OpenByMovie(ctx, tx, req.MovieID)
		if err != nil {
			return err
		}
		if rented != nil && rented.ID != id {
			return alreadyRented(req.MovieID)
		}

		rental.CustomerID = req.CustomerID
		rental.MovieID = req.MovieID
		if err := rental.ChangeDates(req.RentalDate, req.ReturnDate, s.now()); err != nil {
			return err
		}
		return mapOpenRental(s.r.Update(ctx, tx, rental), req.MovieID)
	})
	if err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *service) Remove(ctx context.Context, id int64) error {
	return s.db.InTx(ctx, func(tx database.Querier) error {
		rental, err := s.r.ByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if rental == nil {
			return model.Errorf(model.ErrNotFound, "Rental with Id '%d' not found.", id)
		}
		return s.r.Delete(ctx, tx, id)
	})
}

func (s *service) List(ctx context.Context, page model.PageRequest) (*model.Page[model.RentalView], error) {
	page = page.Normalize()
	now := s.now()

	var on *model.Date
	if q := strings.TrimSpace(page.Query); q != "" {
		d, err := model.ParseDate(model.RentalDate, q, now)
		if err != nil {
			return nil, err
		}
		on = &d
		page.Query = d.String()
	}

	list, total, err := s.r.List(ctx, s.db, page, on)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].IsLate = s.policy.IsLate(list[i].Rental, list[i].Movie.Launch, now)
	}

	return &model.Page[model.RentalView]{
		List:         list,
		TotalResults: total,
		PageIndex:    page.Index,
		PageSize:     page.Size,
		Query:        page.Query,
	}, nil
}

func (s *service) checkRefs(ctx context.Context, tx database.Querier, req model.RentalReq) error {
	c, err := s.c.ByID(ctx, tx, req.CustomerID)
	if err != nil {
		return err
	}
	if c == nil {
		return model.Errorf(model.ErrNotFound, "Customer with Id '%d' not found.", req.CustomerID)
	}
	m, err := s.m.ByID(ctx, tx, req.MovieID)
	if err != nil {
		return err
	}
	if m == nil {
		return model.Errorf(model.ErrNotFound, "Movie with Id '%d' not found.", req.MovieID)
	}
	return nil
}

func alreadyRented(movieID int64) error {
	return model.Errorf(model.ErrAlreadyRented, "Movie with Id '%d' is already rented.", movieID)
}

// mapOpenRental turns a race lost against another open rental of the same
// movie into the domain error; the partial unique index is the final word.
func mapOpenRental(err error, movieID int64) error {
	if c, ok := database.UniqueViolation(err); ok && c == database.ConstraintOpenRental {
		return alreadyRented(movieID)
	}
	return err
}
