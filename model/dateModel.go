// model/date.go
package model

import (
	"encoding/json"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05"}

// DateKind names a date field and the rule applied when parsing it.
type DateKind struct {
	Field        string
	RejectFuture bool
}

var (
	BirthDate  = DateKind{Field: "birth date", RejectFuture: true}
	RentalDate = DateKind{Field: "rental date"}
	ReturnDate = DateKind{Field: "return date"}
)

// Date is a calendar date (UTC midnight) validated for one DateKind.
type Date struct {
	t time.Time
}

// ParseDate validates raw as a date of the given kind. now is the
// reference instant for the reject-future rule.
func ParseDate(kind DateKind, raw string, now time.Time) (Date, error) {
	raw = strings.TrimSpace(raw)
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return Date{}, Wrap(ErrValidation, err, "Invalid "+kind.Field+".")
	}
	d := DateOf(t)
	if kind.RejectFuture && d.IsFuture(now) {
		return Date{}, Errorf(ErrValidation, "Invalid %s: %s is in the future.", kind.Field, d)
	}
	return d, nil
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) String() string  { return d.t.Format(DateLayout) }

// DaysUntil returns the whole days from d to other; negative when other
// is earlier than d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// IsFuture reports whether d is strictly after the calendar day of now.
func (d Date) IsFuture(now time.Time) bool {
	return d.t.After(DateOf(now).t)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
