package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// empty leaves the write routes open
	JWTSecret string `env:"JWT_SECRET"`

	LaunchLateDays    int `env:"LAUNCH_LATE_DAYS" default:"2"`
	NonLaunchLateDays int `env:"NON_LAUNCH_LATE_DAYS" default:"3"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"40"`

	DBConnectAttempts int           `env:"DB_CONNECT_ATTEMPTS" default:"12"`
	DBConnectDelay    time.Duration `env:"DB_CONNECT_DELAY" default:"5s"`
}
