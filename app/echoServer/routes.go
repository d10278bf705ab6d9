package echoServer

import (
	"log/slog"
	"net/http"

	"videostore/app/echoServer/controller/customer"
	"videostore/app/echoServer/controller/movie"
	"videostore/app/echoServer/controller/rental"
	jwtutil "videostore/util/jwt"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Customer *customer.Controller
	Movie    *movie.Controller
	Rental   *rental.Controller

	// JWTSecret empty leaves the write routes open.
	JWTSecret string
	Log       *slog.Logger
}

func Register(e *echo.Echo, c C) {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	api := e.Group("/api")

	// Reads are public
	api.GET("/customer/all", c.Customer.List)
	api.GET("/customer/min-data", c.Customer.Summaries)
	api.GET("/movie/all", c.Movie.List)
	api.GET("/movie/min-data", c.Movie.Summaries)
	api.GET("/rental/all", c.Rental.List)
	api.GET("/rental/report", c.Rental.Report)
	api.GET("/rental/export", c.Rental.Export)

	// Writes need a staff token when a secret is configured. The guard is
	// attached per route so unknown paths still answer 404.
	var staff []echo.MiddlewareFunc
	if c.JWTSecret != "" {
		staff = append(staff,
			echojwt.WithConfig(echojwt.Config{
				SigningKey:    []byte(c.JWTSecret),
				SigningMethod: "HS256",
				NewClaimsFunc: func(echo.Context) jwt.Claims { return jwt.MapClaims{} },
				TokenLookup:   "header:Authorization:Bearer ",
				KeyFunc:       jwtutil.Keyfunc(c.JWTSecret),
				ErrorHandler: func(ctx echo.Context, err error) error {
					c.Log.Warn("auth rejected",
						"req_id", ctx.Response().Header().Get(echo.HeaderXRequestID),
						"ip", ctx.RealIP(),
						"err", err,
					)
					return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
				},
			}),
			StaffOnly(c.Log),
		)
	}

	api.POST("/customer", c.Customer.Create, staff...)
	api.PUT("/customer/:id", c.Customer.Update, staff...)
	api.DELETE("/customer/:id", c.Customer.Delete, staff...)

	api.POST("/movie/import", c.Movie.Import, staff...)

	api.POST("/rental", c.Rental.Create, staff...)
	api.PUT("/rental/:id", c.Rental.Update, staff...)
	api.DELETE("/rental/:id", c.Rental.Delete, staff...)
}
