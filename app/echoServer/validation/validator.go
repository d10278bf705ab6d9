package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"videostore/model"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator. Field failures come back as one
// ErrValidation error per field, joined.
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return model.Wrap(model.ErrValidation, err, "Invalid request.")
	}
	errs := make([]error, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, model.Errorf(model.ErrValidation, "%s", message(f)))
	}
	return errors.Join(errs...)
}

func message(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", f.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", f.Field(), f.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", f.Field(), f.Param())
	}
	return fmt.Sprintf("%s is invalid (%s).", f.Field(), f.Tag())
}
