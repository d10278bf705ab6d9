package customer

import (
	"log/slog"
	"net/http"

	"videostore/app/echoServer/controller"
	"videostore/app/echoServer/jwtx"
	"videostore/model"
	customersvc "videostore/service/customer"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc customersvc.Service
	V   echo.Validator
	Log *slog.Logger
}

// Create godoc
// @Summary  Add a customer
// @Tags     customer
// @Accept   json
// @Produce  json
// @Param    body body model.CustomerReq true "customer"
// @Success  201 {object} model.Customer
// @Failure  400 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Security BearerAuth
// @Router   /api/customer [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CustomerReq
	if err := c.Bind(&req); err != nil {
		return controller.BindError(c, err)
	}
	if err := h.V.Validate(req); err != nil {
		return controller.Fail(c, h.Log, "customer create", err)
	}
	out, err := h.Svc.Add(c.Request().Context(), req)
	if err != nil {
		return controller.Fail(c, h.Log, "customer create", err)
	}
	h.Log.Info("customer created", "id", out.ID, "staff", jwtx.Staff(c))
	return c.JSON(http.StatusCreated, out)
}

// Update godoc
// @Summary  Replace a customer's data
// @Tags     customer
// @Accept   json
// @Produce  json
// @Param    id   path int true "customer id"
// @Param    body body model.CustomerReq true "customer"
// @Success  200 {object} model.Customer
// @Failure  404 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Security BearerAuth
// @Router   /api/customer/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, ok := controller.ParseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.CustomerReq
	if err := c.Bind(&req); err != nil {
		return controller.BindError(c, err)
	}
	if err := h.V.Validate(req); err != nil {
		return controller.Fail(c, h.Log, "customer update", err)
	}
	out, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return controller.Fail(c, h.Log, "customer update", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary  Remove a customer and their rentals
// @Tags     customer
// @Param    id path int true "customer id"
// @Success  204
// @Failure  404 {object} map[string]any
// @Security BearerAuth
// @Router   /api/customer/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, ok := controller.ParseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Remove(c.Request().Context(), id); err != nil {
		return controller.Fail(c, h.Log, "customer delete", err)
	}
	h.Log.Info("customer removed", "id", id, "staff", jwtx.Staff(c))
	return c.NoContent(http.StatusNoContent)
}

// List godoc
// @Summary  Page customers by name
// @Tags     customer
// @Produce  json
// @Param    ps   query int    false "page size"  default(8)
// @Param    page query int    false "page index" default(1)
// @Param    q    query string false "name filter"
// @Success  200 {object} map[string]any
// @Router   /api/customer/all [get]
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), controller.Page(c))
	if err != nil {
		return controller.Fail(c, h.Log, "customer list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Summaries godoc
// @Summary  Id and name of every customer
// @Tags     customer
// @Produce  json
// @Success  200 {array} model.CustomerSummary
// @Router   /api/customer/min-data [get]
func (h *Controller) Summaries(c echo.Context) error {
	out, err := h.Svc.Summaries(c.Request().Context())
	if err != nil {
		return controller.Fail(c, h.Log, "customer summaries", err)
	}
	return c.JSON(http.StatusOK, out)
}
