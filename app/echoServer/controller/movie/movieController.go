package movie

import (
	"log/slog"
	"net/http"

	"videostore/app/echoServer/controller"
	"videostore/app/echoServer/jwtx"
	"videostore/model"
	moviesvc "videostore/service/movie"
	"videostore/util/csvimport"

	"github.com/labstack/echo/v4"
)

// FormField is the multipart field holding the catalog file.
const FormField = "csvFile"

type Controller struct {
	Svc moviesvc.Service
	Log *slog.Logger
}

// Import godoc
// @Summary  Import movies from a ';' separated csv file
// @Tags     movie
// @Accept   multipart/form-data
// @Produce  json
// @Param    csvFile formData file true "Id;Titulo;ClassificacaoIndicativa;Lancamento"
// @Success  201 {array} model.Movie
// @Failure  400 {object} map[string]any
// @Failure  409 {object} map[string]any
// @Security BearerAuth
// @Router   /api/movie/import [post]
func (h *Controller) Import(c echo.Context) error {
	fh, err := c.FormFile(FormField)
	if err != nil {
		return controller.Fail(c, h.Log, "movie import",
			model.Errorf(model.ErrImportFormat, "Form field '%s' with the csv file is required.", FormField))
	}
	f, err := fh.Open()
	if err != nil {
		return controller.Fail(c, h.Log, "movie import", err)
	}
	defer f.Close()

	rows, err := csvimport.ReadMovies(f)
	if err != nil {
		return controller.Fail(c, h.Log, "movie import", err)
	}
	out, err := h.Svc.Import(c.Request().Context(), rows)
	if err != nil {
		return controller.Fail(c, h.Log, "movie import", err)
	}
	h.Log.Info("movies imported", "count", len(out), "file", fh.Filename, "staff", jwtx.Staff(c))
	return c.JSON(http.StatusCreated, out)
}

// List godoc
// @Summary  Page movies by title
// @Tags     movie
// @Produce  json
// @Param    ps   query int    false "page size"  default(8)
// @Param    page query int    false "page index" default(1)
// @Param    q    query string false "title filter"
// @Success  200 {object} map[string]any
// @Router   /api/movie/all [get]
func (h *Controller) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), controller.Page(c))
	if err != nil {
		return controller.Fail(c, h.Log, "movie list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Summaries godoc
// @Summary  Id and title of every movie
// @Tags     movie
// @Produce  json
// @Success  200 {array} model.MovieSummary
// @Router   /api/movie/min-data [get]
func (h *Controller) Summaries(c echo.Context) error {
	out, err := h.Svc.Summaries(c.Request().Context())
	if err != nil {
		return controller.Fail(c, h.Log, "movie summaries", err)
	}
	return c.JSON(http.StatusOK, out)
}
