package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, Development, cfg.Mode)
	require.Equal(t, 5012, cfg.ServerPort)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 10*time.Minute, cfg.OTPTTL)
	require.Equal(t, time.Hour, cfg.ResetTokenTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("RESET_TOKEN_TTL", "30m")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DB", "vgb_test")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, 5*time.Minute, cfg.OTPTTL)
	require.Equal(t, 30*time.Minute, cfg.ResetTokenTTL)
	require.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	require.Equal(t, "vgb_test", cfg.Database.DBName)
}

func TestValidate(t *testing.T) {
	t.Run("development needs nothing", func(t *testing.T) {
		cfg := Config{Mode: Development}
		require.NoError(t, cfg.Validate())
	})

	t.Run("production requires secret and database", func(t *testing.T) {
		cfg := Config{Mode: Production}
		require.Error(t, cfg.Validate())

		cfg.JWTSecret = "secret"
		require.Error(t, cfg.Validate())

		cfg.Database.URI = "mongodb://db:27017"
		require.NoError(t, cfg.Validate())
	})
}
