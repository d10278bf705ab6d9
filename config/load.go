package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

func Load() App {
	cfg := App{
		Port:        getenv("PORT", getenv("APP_PORT", "8080")),
		DatabaseURL: must("DATABASE_URL"),
		Env:         getenv("APP_ENV", "dev"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		LaunchLateDays:    getint("LAUNCH_LATE_DAYS", 2),
		NonLaunchLateDays: getint("NON_LAUNCH_LATE_DAYS", 3),

		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 40),

		DBConnectAttempts: getint("DB_CONNECT_ATTEMPTS", 12),
		DBConnectDelay:    getduration("DB_CONNECT_DELAY", 5*time.Second),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

// The typed getters fall back to def on a malformed value and say so.

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		slog.Warn("invalid env, using default", "key", k, "value", v, "default", def)
		return def
	}
	return i
}

func getfloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("invalid env, using default", "key", k, "value", v, "default", def)
		return def
	}
	return f
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid env, using default", "key", k, "value", v, "default", def.String())
		return def
	}
	return d
}
