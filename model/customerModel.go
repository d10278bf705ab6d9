// model/customer.go
package model

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

const CpfMaxLength = 11

// Cpf is a customer's taxpayer number. Only presence and length are checked.
type Cpf string

func NewCpf(raw string) (Cpf, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(ErrValidation, "Cpf is required.")
	}
	if utf8.RuneCountInString(raw) > CpfMaxLength {
		return "", Errorf(ErrValidation, "Cpf '%s' exceeds %d characters.", raw, CpfMaxLength)
	}
	return Cpf(raw), nil
}

func (c Cpf) String() string { return string(c) }

type Customer struct {
	ID        int64
	Name      string
	Cpf       Cpf
	BirthDate Date
}

// NewCustomer validates the raw fields of a customer.
func NewCustomer(name, cpf, birthDate string, now time.Time) (*Customer, error) {
	c := &Customer{}
	if err := c.Change(name, cpf, birthDate, now); err != nil {
		return nil, err
	}
	return c, nil
}

// Change replaces name, cpf and birth date after validating them. The
// customer is left untouched on error.
func (c *Customer) Change(name, cpf, birthDate string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Errorf(ErrValidation, "Name is required.")
	}
	number, err := NewCpf(cpf)
	if err != nil {
		return err
	}
	bd, err := ParseDate(BirthDate, birthDate, now)
	if err != nil {
		return err
	}
	c.Name, c.Cpf, c.BirthDate = name, number, bd
	return nil
}

func (c Customer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Cpf       string `json:"cpf"`
		BirthDate string `json:"birth_date"`
	}{c.ID, c.Name, c.Cpf.String(), c.BirthDate.String()})
}

type CustomerSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomerReq is the create/update payload
// swagger:model CustomerReq
type CustomerReq struct {
	Name      string `json:"name" validate:"required,max=200"`
	Cpf       string `json:"cpf" validate:"required,max=11"`
	BirthDate string `json:"birth_date" validate:"required"`
}
