// Package spreadsheet renders the rental report as an xlsx workbook.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"

	"videostore/model"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetLateCustomers  = "Late customers"
	SheetNeverRented    = "Never rented movies"
	SheetTopThisYear    = "Top rented this year"
	SheetLeastLastWeek  = "Least rented last week"
	SheetRankedCustomer = "Second best customer"
)

var (
	customerHeader = []any{"Id", "Name", "CPF", "Birth Date"}
	movieHeader    = []any{"Id", "Title", "Parental Rating", "Launch"}
)

// Render writes one sheet per report dataset. The ranked customer sheet is
// named after the rank when it differs from 2.
func Render(r *model.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	ranked := SheetRankedCustomer
	if r.RankedCustomerNumber > 0 && r.RankedCustomerNumber != 2 {
		ranked = fmt.Sprintf("Customer ranked #%d", r.RankedCustomerNumber)
	}
	var rankedRows []model.Customer
	if r.RankedCustomer != nil {
		rankedRows = []model.Customer{*r.RankedCustomer}
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetLateCustomers, customerRows(r.LateCustomers)},
		{SheetNeverRented, movieRows(r.NeverRentedMovies)},
		{SheetTopThisYear, movieRows(r.MostRentedThisYear)},
		{SheetLeastLastWeek, movieRows(r.LeastRentedLastWeek)},
		{ranked, customerRows(rankedRows)},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}
		if err := writeRows(f, s.name, s.rows); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func customerRows(list []model.Customer) [][]any {
	rows := [][]any{customerHeader}
	for _, c := range list {
		rows = append(rows, []any{c.ID, c.Name, c.Cpf.String(), c.BirthDate.String()})
	}
	return rows
}

func movieRows(list []model.Movie) [][]any {
	rows := [][]any{movieHeader}
	for _, m := range list {
		rows = append(rows, []any{m.ID, m.Title, m.ParentalRating, strconv.FormatBool(m.Launch)})
	}
	return rows
}
