package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lendtrack_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, 30, cfg.GracePeriodDays)
	assert.Equal(t, 24, cfg.ReconcileInterval)
	assert.Equal(t, 5, cfg.WorkerCount)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lendtrack")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadGracePeriodOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lendtrack_test")
	t.Setenv("GRACE_PERIOD_DAYS", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45, cfg.GracePeriodDays)
}

func TestLoadRejectsNegativeGracePeriod(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lendtrack_test")
	t.Setenv("GRACE_PERIOD_DAYS", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lendtrack_test")
	t.Setenv("WORKER_COUNT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.WorkerCount)
}
