package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videostore")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Empty(t, cfg.JWTSecret)
	require.Equal(t, 2, cfg.LaunchLateDays)
	require.Equal(t, 3, cfg.NonLaunchLateDays)
	require.Equal(t, 20.0, cfg.RateLimitRPS)
	require.Equal(t, 40, cfg.RateLimitBurst)
	require.Equal(t, 12, cfg.DBConnectAttempts)
	require.Equal(t, 5*time.Second, cfg.DBConnectDelay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videostore")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("PORT", "")
	t.Setenv("LAUNCH_LATE_DAYS", "1")
	t.Setenv("NON_LAUNCH_LATE_DAYS", "oops")
	t.Setenv("DB_CONNECT_DELAY", "250ms")

	cfg := Load()
	require.Equal(t, "9000", cfg.Port)
	require.Equal(t, 1, cfg.LaunchLateDays)
	require.Equal(t, 3, cfg.NonLaunchLateDays, "malformed value falls back")
	require.Equal(t, 250*time.Millisecond, cfg.DBConnectDelay)
}

func TestLoad_PortEnvWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/videostore")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("PORT", "7000")
	require.Equal(t, "7000", Load().Port)
}

func TestLoad_MissingDatabaseURLPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.Panics(t, func() { Load() })
}
