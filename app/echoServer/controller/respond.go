package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"videostore/model"

	"github.com/labstack/echo/v4"
)

// Status maps a domain error code to its HTTP status.
func Status(code model.ErrCode) int {
	switch code {
	case model.ErrValidation, model.ErrInvalidDateRange, model.ErrImportFormat:
		return http.StatusBadRequest
	case model.ErrNotFound:
		return http.StatusNotFound
	case model.ErrDuplicateCpf, model.ErrDuplicateID, model.ErrAlreadyRented:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Fail writes err as {"message", "errors"}. Uncoded errors are logged and
// hidden behind a generic message.
func Fail(c echo.Context, log *slog.Logger, op string, err error) error {
	rid := c.Response().Header().Get(echo.HeaderXRequestID)

	code := model.Code(err)
	status := Status(code)
	if status == http.StatusInternalServerError {
		log.Error(op, "req_id", rid, "err", err)
		return c.JSON(status, echo.Map{"message": "internal error"})
	}

	msgs := model.Messages(err)
	log.Warn(op, "req_id", rid, "code", string(code), "errors", msgs)
	return c.JSON(status, echo.Map{"message": msgs[0], "errors": msgs})
}

// BindError answers a request echo could not decode.
func BindError(c echo.Context, err error) error {
	msg := "invalid JSON"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg, "errors": []string{msg}})
}

func ParseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// Page reads ps, page and q. Bad numbers fall back to defaults.
func Page(c echo.Context) model.PageRequest {
	ps, _ := strconv.Atoi(c.QueryParam("ps"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return model.PageRequest{Size: ps, Index: page, Query: c.QueryParam("q")}.Normalize()
}
