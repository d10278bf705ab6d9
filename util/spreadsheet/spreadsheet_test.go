package spreadsheet

import (
	"bytes"
	"testing"

	"videostore/model"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRender_Sheets(t *testing.T) {
	rep := &model.Report{
		MostRentedThisYear:   []model.Movie{{ID: 7, Title: "Dune", ParentalRating: 12, Launch: true}},
		RankedCustomer:       &model.Customer{ID: 2, Name: "Bia", Cpf: "222"},
		RankedCustomerNumber: 2,
	}
	body, err := Render(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{
		SheetLateCustomers, SheetNeverRented, SheetTopThisYear, SheetLeastLastWeek, SheetRankedCustomer,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetTopThisYear)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"Id", "Title", "Parental Rating", "Launch"},
		{"7", "Dune", "12", "true"},
	}, rows)

	rows, err = f.GetRows(SheetNeverRented)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")

	rows, err = f.GetRows(SheetRankedCustomer)
	require.NoError(t, err)
	require.Equal(t, "Bia", rows[1][1])
}

func TestRender_OtherRank(t *testing.T) {
	body, err := Render(&model.Report{RankedCustomerNumber: 3})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	require.Contains(t, f.GetSheetList(), "Customer ranked #3")
}
