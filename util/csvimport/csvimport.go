// Package csvimport reads the movie catalog files the shop receives from
// its distributors: ';' separated, one header row.
package csvimport

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"videostore/model"
)

const Delimiter = ';'

// header aliases, lower-cased
var columns = map[string][]string{
	"id":     {"id"},
	"title":  {"titulo", "title"},
	"rating": {"classificacaoindicativa", "parentalrating", "parental_rating"},
	"launch": {"lancamento", "launch"},
}

// ReadMovies parses every record of r. Any structural problem yields an
// ErrImportFormat error pointing at the offending line.
func ReadMovies(r io.Reader) ([]model.MovieRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.Errorf(model.ErrImportFormat, "Csv file is empty.")
	}
	if err != nil {
		return nil, model.Wrap(model.ErrImportFormat, err, "Csv file header could not be read.")
	}
	idx, err := indexHeader(head)
	if err != nil {
		return nil, err
	}

	var rows []model.MovieRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, model.Wrap(model.ErrImportFormat, err, "Csv line "+strconv.Itoa(pe.StartLine)+" is malformed.")
			}
			return nil, model.Wrap(model.ErrImportFormat, err, "Csv file could not be read.")
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRow(rec, idx, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func indexHeader(head []string) (map[string]int, error) {
	pos := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		pos[h] = i
	}
	idx := make(map[string]int, len(columns))
	for key, aliases := range columns {
		found := false
		for _, a := range aliases {
			if i, ok := pos[a]; ok {
				idx[key], found = i, true
				break
			}
		}
		if !found {
			return nil, model.Errorf(model.ErrImportFormat, "Csv file is missing the '%s' column.", aliases[0])
		}
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int, line int) (model.MovieRow, error) {
	cell := func(key string) string {
		if i := idx[key]; i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	id, err := strconv.ParseInt(cell("id"), 10, 64)
	if err != nil || id <= 0 {
		return model.MovieRow{}, model.Errorf(model.ErrImportFormat, "Csv line %d: invalid Id '%s'.", line, cell("id"))
	}
	title := cell("title")
	if title == "" {
		return model.MovieRow{}, model.Errorf(model.ErrImportFormat, "Csv line %d: Title is required.", line)
	}
	rating, err := strconv.Atoi(cell("rating"))
	if err != nil || rating < 0 {
		return model.MovieRow{}, model.Errorf(model.ErrImportFormat, "Csv line %d: invalid parental rating '%s'.", line, cell("rating"))
	}
	launch, err := parseFlag(cell("launch"))
	if err != nil {
		return model.MovieRow{}, model.Errorf(model.ErrImportFormat, "Csv line %d: invalid launch flag '%s'.", line, cell("launch"))
	}
	return model.MovieRow{ID: id, Title: title, ParentalRating: rating, Launch: launch}, nil
}

// parseFlag accepts 0/1 as well as true/false.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "sim", "yes":
		return true, nil
	case "0", "false", "nao", "não", "no":
		return false, nil
	}
	return false, errors.New("not a flag")
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
