package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_URL", "postgres://localhost:5432/shop")
	t.Setenv("JWT_SECRET", "test_secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.ServerPort)
	require.Equal(t, "HS256", cfg.JWTAlgorithm)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.KafkaBrokers)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "test_secret")
	_, err := Load()
	require.ErrorContains(t, err, "DB_URL")

	t.Setenv("DB_URL", "postgres://localhost:5432/shop")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
