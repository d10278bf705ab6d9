package reportsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"videostore/model"
	"videostore/util/database"
	"videostore/util/spreadsheet"

	"golang.org/x/sync/errgroup"
)

type Repo interface {
	LateCustomers(ctx context.Context, q database.Querier, today model.Date, p model.LatePolicy) ([]model.Customer, error)
	NeverRentedMovies(ctx context.Context, q database.Querier) ([]model.Movie, error)
	MostRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error)
	LeastRentedMovies(ctx context.Context, q database.Querier, from, to model.Date, limit int) ([]model.Movie, error)
	CustomerByRank(ctx context.Context, q database.Querier, position int) (*model.Customer, error)
}

type Service interface {
	Generate(ctx context.Context) (*model.Report, error)
	// Export renders a freshly generated report as an xlsx workbook.
	Export(ctx context.Context) ([]byte, error)
}

type settings struct {
	topN       int
	bottomN    int
	windowDays int
	rank       int
	now        func() time.Time
	log        *slog.Logger
}

type service struct {
	q      database.Querier
	r      Repo
	policy model.LatePolicy
	settings
}

type Option func(*settings)

func WithTopN(n int) Option       { return func(s *settings) { s.topN = n } }
func WithBottomN(n int) Option    { return func(s *settings) { s.bottomN = n } }
func WithWindowDays(d int) Option { return func(s *settings) { s.windowDays = d } }
func WithRank(pos int) Option     { return func(s *settings) { s.rank = pos } }

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option { return func(s *settings) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.log = l } }

var defaults = settings{
	topN:       5,
	bottomN:    3,
	windowDays: 7,
	rank:       2,
}

// New applies opts over the defaults. Out of range values keep the default:
// ranks start at 1 and the other counts cannot be negative.
func New(q database.Querier, r Repo, policy model.LatePolicy, opts ...Option) Service {
	st := defaults
	st.now, st.log = time.Now, slog.Default()
	for _, o := range opts {
		o(&st)
	}
	if st.rank < 1 {
		st.rank = defaults.rank
	}
	if st.topN < 0 {
		st.topN = defaults.topN
	}
	if st.bottomN < 0 {
		st.bottomN = defaults.bottomN
	}
	if st.windowDays < 0 {
		st.windowDays = defaults.windowDays
	}
	if st.now == nil {
		st.now = time.Now
	}
	if st.log == nil {
		st.log = slog.Default()
	}
	return &service{q: q, r: r, policy: policy, settings: st}
}

// Generate reads the five datasets concurrently. Each runs as its own
// statement, so the report is not a single snapshot.
func (s *service) Generate(ctx context.Context) (*model.Report, error) {
	now := s.now()
	today := model.DateOf(now)
	yearStart := model.DateOf(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	yearEnd := model.DateOf(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC))
	weekStart := model.DateOf(today.Time().AddDate(0, 0, -s.windowDays))

	rep := &model.Report{GeneratedAt: now, RankedCustomerNumber: s.rank}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rep.LateCustomers, err = s.r.LateCustomers(gctx, s.q, today, s.policy)
		return wrap("late customers", err)
	})
	g.Go(func() (err error) {
		rep.NeverRentedMovies, err = s.r.NeverRentedMovies(gctx, s.q)
		return wrap("never rented movies", err)
	})
	g.Go(func() (err error) {
		rep.MostRentedThisYear, err = s.r.MostRentedMovies(gctx, s.q, yearStart, yearEnd, s.topN)
		return wrap("most rented this year", err)
	})
	g.Go(func() (err error) {
		rep.LeastRentedLastWeek, err = s.r.LeastRentedMovies(gctx, s.q, weekStart, today, s.bottomN)
		return wrap("least rented last week", err)
	})
	g.Go(func() (err error) {
		rep.RankedCustomer, err = s.r.CustomerByRank(gctx, s.q, s.rank)
		return wrap("ranked customer", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("report generated",
		"late_customers", len(rep.LateCustomers),
		"never_rented", len(rep.NeverRentedMovies),
		"top", len(rep.MostRentedThisYear),
		"least", len(rep.LeastRentedLastWeek),
		"ranked_found", rep.RankedCustomer != nil,
	)
	return rep, nil
}

func (s *service) Export(ctx context.Context) ([]byte, error) {
	rep, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return spreadsheet.Render(rep)
}

func wrap(dataset string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("report %s: %w", dataset, err)
}
