package rental

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"videostore/app/echoServer/controller"
	"videostore/app/echoServer/jwtx"
	"videostore/model"
	reportsvc "videostore/service/report"
	rs "videostore/service/rental"
	"videostore/util/spreadsheet"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc     rs.Service
	Reports reportsvc.Service
	V       echo.Validator
	Log     *slog.Logger
	Now     func() time.Time
}

// Create godoc
// @Summary  Rent a movie to a customer
// @Tags     rental
// @Accept   json
// @Produce  json
// @Param    body body model.RentalReq true "rental"
// @Success  201 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Failure  404 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Security BearerAuth
// @Router   /api/rental [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.RentalReq
	if err := c.Bind(&req); err != nil {
		return controller.BindError(c, err)
	}
	if err := h.V.Validate(req); err != nil {
		return controller.Fail(c, h.Log, "rental create", err)
	}
	out, err := h.Svc.Add(c.Request().Context(), req)
	if err != nil {
		return controller.Fail(c, h.Log, "rental create", err)
	}
	h.Log.Info("rental created", "id", out.ID, "movie_id", out.MovieID, "status", string(out.Status()), "staff", jwtx.Staff(c))
	return c.JSON(http.StatusCreated, out)
}

// Update godoc
// @Summary  Replace a rental; omit return_date to reopen it
// @Tags     rental
// @Accept   json
// @Produce  json
// @Param    id   path int true "rental id"
// @Param    body body model.RentalReq true "rental"
// @Success  200 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Failure  404 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Security BearerAuth
// @Router   /api/rental/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, ok := controller.ParseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.RentalReq
	if err := c.Bind(&req); err != nil {
		return controller.BindError(c, err)
	}
	if err := h.V.Validate(req); err != nil {
		return controller.Fail(c, h.Log, "rental update", err)
	}
	out, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return controller.Fail(c, h.Log, "rental update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary  Remove a rental
// @Tags     rental
// @Param    id path int true "rental id"
// @Success  204
// @Failure  404 {object} map[string]any
// @Security BearerAuth
// @Router   /api/rental/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, ok := controller.ParseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return controller.Fail(c, h.Log, "rental delete", err)
	}
	h.Log.Info("rental removed", "id", id, "staff", jwtx.Staff(c))
	return c.NoContent(http.StatusNoContent)
}

// List godoc
// @Summary  Page rentals by rental date
// @Tags     rental
// @Produce  json
// @Param    ps   query int    false "page size"  default(8)
// @Param    page query int    false "page index" default(1)
// @Param    q    query string false "rental date, yyyy-mm-dd"
// @Success  200 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Router   /api/rental/all [get]
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), controller.Page(c))
	if err != nil {
		return controller.Fail(c, h.Log, "rental list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Report godoc
// @Summary  Late customers, movie rankings and the ranked customer
// @Tags     rental
// @Produce  json
// @Success  200 {object} model.Report
// @Router   /api/rental/report [get]
func (h *Controller) Report(c echo.Context) error {
	out, err := h.Reports.Generate(c.Request().Context())
	if err != nil {
		return controller.Fail(c, h.Log, "rental report", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Export godoc
// @Summary  Download the report as an xlsx workbook
// @Tags     rental
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success  200 {file} file
// @Router   /api/rental/export [get]
func (h *Controller) Export(c echo.Context) error {
	body, err := h.Reports.Export(c.Request().Context())
	if err != nil {
		return controller.Fail(c, h.Log, "rental export", err)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := fmt.Sprintf("report-%s.xlsx", now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, spreadsheet.ContentType, body)
}
