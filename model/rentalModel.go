// model/rental.go
package model

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

type RentalStatus string

const (
	RentalOpen   RentalStatus = "OPEN"
	RentalClosed RentalStatus = "CLOSED"
)

type Rental struct {
	ID         int64
	CustomerID int64
	MovieID    int64
	RentalDate Date
	ReturnDate *Date // nil while the movie is out
}

func (r *Rental) Status() RentalStatus {
	if r.ReturnDate == nil {
		return RentalOpen
	}
	return RentalClosed
}

// SetDates validates and applies the dates of a new rental.
//
// A return date in the future has not happened yet: it is dropped and the
// rental stays open. A past or present return date must not precede the
// rental date.
func (r *Rental) SetDates(rentalDate, returnDate string, now time.Time) error {
	return r.setDates(rentalDate, returnDate, now, false)
}

// ChangeDates validates and applies the dates of an existing rental. Unlike
// SetDates the order of the two dates is checked even when the return date
// is in the future. An empty returnDate reopens the rental.
func (r *Rental) ChangeDates(rentalDate, returnDate string, now time.Time) error {
	return r.setDates(rentalDate, returnDate, now, true)
}

func (r *Rental) setDates(rentalDate, returnDate string, now time.Time, checkFuture bool) error {
	rd, err := ParseDate(RentalDate, rentalDate, now)
	if err != nil {
		return err
	}
	var ret *Date
	if strings.TrimSpace(returnDate) != "" {
		d, err := ParseDate(ReturnDate, returnDate, now)
		if err != nil {
			return err
		}
		future := d.IsFuture(now)
		if (checkFuture || !future) && rd.DaysUntil(d) < 0 {
			return Errorf(ErrInvalidDateRange, "Rental date %s should be less or equal than return date %s.", rd, d)
		}
		if !future {
			ret = &d
		}
	}
	r.RentalDate, r.ReturnDate = rd, ret
	return nil
}

func (r Rental) MarshalJSON() ([]byte, error) {
	return json.Marshal(rentalJSON(r))
}

type rentalOut struct {
	ID         int64        `json:"id"`
	CustomerID int64        `json:"customer_id"`
	MovieID    int64        `json:"movie_id"`
	RentalDate string       `json:"rental_date"`
	ReturnDate *string      `json:"return_date"`
	Status     RentalStatus `json:"status"`
}

func rentalJSON(r Rental) rentalOut {
	out := rentalOut{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		MovieID:    r.MovieID,
		RentalDate: r.RentalDate.String(),
		Status:     r.Status(),
	}
	if r.ReturnDate != nil {
		s := r.ReturnDate.String()
		out.ReturnDate = &s
	}
	return out
}

// LatePolicy holds the number of days a movie may stay out before the
// rental counts as late.
type LatePolicy struct {
	LaunchDays    int
	NonLaunchDays int
}

func (p LatePolicy) Threshold(launch bool) int {
	if launch {
		return p.LaunchDays
	}
	return p.NonLaunchDays
}

// IsLate reports whether an open rental of a movie with the given launch
// flag has been out longer than allowed.
func (p LatePolicy) IsLate(r Rental, launch bool, now time.Time) bool {
	if r.ReturnDate != nil {
		return false
	}
	return r.RentalDate.DaysUntil(DateOf(now)) > p.Threshold(launch)
}

// RentalView is a rental joined with its customer and movie.
type RentalView struct {
	Rental   Rental
	Customer Customer
	Movie    Movie
	IsLate   bool
}

func (v RentalView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		rentalOut
		Customer Customer `json:"customer"`
		Movie    Movie    `json:"movie"`
		IsLate   bool     `json:"is_late"`
	}{rentalJSON(v.Rental), v.Customer, v.Movie, v.IsLate})
}

// RentalReq is the create/update payload
// swagger:model RentalReq
type RentalReq struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	MovieID    int64  `json:"movie_id" validate:"required,gt=0"`
	RentalDate string `json:"rental_date" validate:"required"`
	ReturnDate string `json:"return_date"`
}

// Page is one slice of a filtered, ordered listing.
type Page[T any] struct {
	List         []T    `json:"list"`
	TotalResults int    `json:"total_results"`
	PageIndex    int    `json:"page_index"`
	PageSize     int    `json:"page_size"`
	Query        string `json:"query,omitempty"`
}

const (
	DefaultPageSize = 8
	MaxPageSize     = 100
	// MaxPageIndex keeps Offset inside a signed 32-bit OFFSET.
	MaxPageIndex = math.MaxInt32 / MaxPageSize
)

// PageRequest is a 1-based page position plus a free-text filter.
type PageRequest struct {
	Size  int
	Index int
	Query string
}

// Normalize applies defaults and bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Index < 1 {
		p.Index = 1
	}
	if p.Index > MaxPageIndex {
		p.Index = MaxPageIndex
	}
	return p
}

func (p PageRequest) Offset() int { return p.Size * (p.Index - 1) }
