package customerrepo_test

import (
	"context"
	"testing"
	"time"

	"videostore/model"
	customerrepo "videostore/repository/customer"
	"videostore/util/database"
	"videostore/util/database/dbtest"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestInsertFindUpdate(t *testing.T) {
	// setup
	db := dbtest.Open(t, "test_customerrepo")
	r := customerrepo.New()
	ctx := context.Background()

	// arrange
	c, err := model.NewCustomer("Ana", "12345678901", "1990-05-17", now)
	require.NoError(t, err)

	// act
	require.NoError(t, r.Insert(ctx, db, c))

	// assert
	require.NotZero(t, c.ID)
	got, err := r.ByID(ctx, db, c.ID)
	require.NoError(t, err)
	require.Equal(t, c, got)

	byCpf, err := r.ByCpf(ctx, db, "12345678901")
	require.NoError(t, err)
	require.Equal(t, c.ID, byCpf.ID)

	require.NoError(t, c.Change("Ana Maria", "999", "1990-05-18", now))
	require.NoError(t, r.Update(ctx, db, c))
	got, err = r.ByID(ctx, db, c.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", got.Name)
	require.Equal(t, "1990-05-18", got.BirthDate.String())

	missing, err := r.ByID(ctx, db, c.ID+100)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestInsert_CpfUniqueConstraint(t *testing.T) {
	db := dbtest.Open(t, "test_customerrepo")
	r := customerrepo.New()
	ctx := context.Background()

	dbtest.GivenCustomer(t, db, "Ana", "111", "1990-01-01")
	c, err := model.NewCustomer("Bia", "111", "1991-01-01", now)
	require.NoError(t, err)

	err = r.Insert(ctx, db, c)
	constraint, ok := database.UniqueViolation(err)
	require.True(t, ok, "got %v", err)
	require.Equal(t, database.ConstraintCustomerCpf, constraint)
}

func TestList_FilterAndPaging(t *testing.T) {
	db := dbtest.Open(t, "test_customerrepo")
	r := customerrepo.New()
	ctx := context.Background()

	dbtest.GivenCustomer(t, db, "Carla", "1", "1990-01-01")
	dbtest.GivenCustomer(t, db, "Ana", "2", "1990-01-01")
	dbtest.GivenCustomer(t, db, "Bruna", "3", "1990-01-01")
	dbtest.GivenCustomer(t, db, "Mariana", "4", "1990-01-01")
	dbtest.GivenCustomer(t, db, "100% Ana", "5", "1990-01-01")

	list, total, err := r.List(ctx, db, model.PageRequest{Size: 2, Index: 2}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Equal(t, []string{"Bruna", "Carla"}, names(list), "ordered by name, second page")

	list, total, err = r.List(ctx, db, model.PageRequest{Query: "aNA"}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.ElementsMatch(t, []string{"100% Ana", "Ana", "Mariana"}, names(list), "case-insensitive substring")

	list, total, err = r.List(ctx, db, model.PageRequest{Query: "0%"}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 1, total, "wildcards in the filter are literal")
	require.Equal(t, "100% Ana", list[0].Name)

	list, total, err = r.List(ctx, db, model.PageRequest{Index: 9}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Empty(t, list)
}

func TestSummariesAndDeleteCascade(t *testing.T) {
	db := dbtest.Open(t, "test_customerrepo")
	r := customerrepo.New()
	ctx := context.Background()

	bia := dbtest.GivenCustomer(t, db, "Bia", "1", "1990-01-01")
	ana := dbtest.GivenCustomer(t, db, "Ana", "2", "1990-01-01")
	dbtest.GivenMovie(t, db, 1, "Alien", false)
	dbtest.GivenRental(t, db, bia, 1, "2024-03-01", "")

	sums, err := r.Summaries(ctx, db)
	require.NoError(t, err)
	require.Equal(t, []model.CustomerSummary{{ID: ana, Name: "Ana"}, {ID: bia, Name: "Bia"}}, sums)

	require.NoError(t, r.Delete(ctx, db, bia))
	var rentals int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM rentals`).Scan(&rentals))
	require.Zero(t, rentals, "rentals go with the customer")
}

func names(list []model.Customer) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
