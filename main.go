// Package main video store API.
//
// @title           Video Store API
// @version         1.0
// @description     Customers, movie catalog, rentals and the rental report.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"videostore/app/echoServer"
	customerctrl "videostore/app/echoServer/controller/customer"
	moviectrl "videostore/app/echoServer/controller/movie"
	rentalctrl "videostore/app/echoServer/controller/rental"
	"videostore/app/echoServer/validation"
	"videostore/config"
	"videostore/model"
	customerrepo "videostore/repository/customer"
	movierepo "videostore/repository/movie"
	rentalrepo "videostore/repository/rental"
	customersvc "videostore/service/customer"
	moviesvc "videostore/service/movie"
	rentalsvc "videostore/service/rental"
	reportsvc "videostore/service/report"
	"videostore/util/database"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{
		Attempts: cfg.DBConnectAttempts,
		Delay:    cfg.DBConnectDelay,
		Log:      log,
	})
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Error("db schema failed", "err", err)
		os.Exit(1)
	}

	policy := model.LatePolicy{LaunchDays: cfg.LaunchLateDays, NonLaunchDays: cfg.NonLaunchLateDays}

	// repos
	cr := customerrepo.New()
	mr := movierepo.New()
	rr := rentalrepo.New()

	// services
	cs := customersvc.New(db, cr)
	ms := moviesvc.New(db, mr)
	rs := rentalsvc.New(db, rr, cr, mr, policy)
	reps := reportsvc.New(db, rr, policy, reportsvc.WithLogger(log))

	// controllers
	v := validation.New()
	customerC := &customerctrl.Controller{Svc: cs, V: v, Log: log}
	movieC := &moviectrl.Controller{Svc: ms, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, Reports: reps, V: v, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = echoServer.JSONSerializer{}
	e.Validator = v

	limiter := echoServer.NewLimiterStore(cfg.RateLimitRPS, cfg.RateLimitBurst, 15*time.Minute)
	limiter.StartJanitor(ctx, 2*time.Minute)
	echoServer.RegisterMiddlewares(e, log, limiter)

	e.GET("/health", func(c echo.Context) error {
		if err := db.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":  "down",
				"message": "database unreachable",
			})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Customer: customerC,
		Movie:    movieC,
		Rental:   rentalC,

		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, write routes are open")
	}

	log.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
