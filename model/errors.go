// model/errors.go
package model

import (
	"errors"
	"fmt"
)

// errors used by services and controllers

type ErrCode string

const (
	ErrValidation       ErrCode = "VALIDATION"
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrDuplicateCpf     ErrCode = "DUPLICATE_CPF"
	ErrDuplicateID      ErrCode = "DUPLICATE_ID"
	ErrAlreadyRented    ErrCode = "ALREADY_RENTED"
	ErrInvalidDateRange ErrCode = "INVALID_DATE_RANGE"
	ErrImportFormat     ErrCode = "IMPORT_FORMAT"
)

// Error is a domain failure the caller can recover from. Msg is safe to
// show to API clients.
type Error struct {
	code ErrCode
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Code() ErrCode { return e.code }
func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a coded error with a formatted message.
func Errorf(c ErrCode, format string, args ...any) error {
	return &Error{code: c, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(c ErrCode, cause error, msg string) error {
	return &Error{code: c, Msg: msg, Err: cause}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Messages flattens err into the list shape the API returns.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range multi.Unwrap() {
			out = append(out, Messages(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
