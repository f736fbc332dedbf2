package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"SOCIETY_APP_NAME",
	"SOCIETY_APP_ENV",
	"SOCIETY_DATABASE_HOST",
	"SOCIETY_DATABASE_PASSWORD",
	"SOCIETY_DATABASE_SSLMODE",
	"SOCIETY_DATABASE_MAX_OPEN_CONNS",
	"SOCIETY_DATABASE_MAX_IDLE_CONNS",
	"SOCIETY_TENANCY_MAX_OPEN_CONNS",
	"SOCIETY_TENANCY_MAX_IDLE_CONNS",
	"SOCIETY_TENANCY_CONNECT_TIMEOUT",
	"SOCIETY_TENANCY_IDLE_TIMEOUT",
	"SOCIETY_JWT_SECRET",
	"SOCIETY_TELEMETRY_SAMPLING_RATIO",
	"SOCIETY_SWAGGER_ENABLED",
	"SOCIETY_SWAGGER_REQUIRE_AUTH",
	"SOCIETY_SWAGGER_ALLOWED_IPS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { _ = os.Setenv(k, v) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearConfigEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "societyhub", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "societyhub_master", cfg.Database.DBName)
		assert.Equal(t, 10, cfg.Tenancy.MaxOpenConns)
		assert.Equal(t, 5*time.Second, cfg.Tenancy.ConnectTimeout)
		assert.Equal(t, time.Duration(0), cfg.Tenancy.IdleTimeout)
		assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
	})

	t.Run("loads values from environment variables with SOCIETY prefix", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SOCIETY_APP_NAME", "test-app")
		t.Setenv("SOCIETY_DATABASE_HOST", "master.local")
		t.Setenv("SOCIETY_TENANCY_MAX_OPEN_CONNS", "4")
		t.Setenv("SOCIETY_TENANCY_MAX_IDLE_CONNS", "1")
		t.Setenv("SOCIETY_TENANCY_CONNECT_TIMEOUT", "2s")
		t.Setenv("SOCIETY_TENANCY_IDLE_TIMEOUT", "15m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "master.local", cfg.Database.Host)
		assert.Equal(t, 4, cfg.Tenancy.MaxOpenConns)
		assert.Equal(t, 1, cfg.Tenancy.MaxIdleConns)
		assert.Equal(t, 2*time.Second, cfg.Tenancy.ConnectTimeout)
		assert.Equal(t, 15*time.Minute, cfg.Tenancy.IdleTimeout)
	})

	t.Run("rejects idle connections above the tenancy pool size", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SOCIETY_TENANCY_MAX_OPEN_CONNS", "2")
		t.Setenv("SOCIETY_TENANCY_MAX_IDLE_CONNS", "3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenancy.max_idle_conns")
	})

	t.Run("requires a strong jwt secret in production", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SOCIETY_APP_ENV", "production")
		t.Setenv("SOCIETY_JWT_SECRET", "short")
		t.Setenv("SOCIETY_DATABASE_PASSWORD", "secret")
		t.Setenv("SOCIETY_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production swagger must be protected", func(t *testing.T) {
		production := func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv("SOCIETY_APP_ENV", "production")
			t.Setenv("SOCIETY_JWT_SECRET", "a-production-secret-of-32-chars!!")
			t.Setenv("SOCIETY_DATABASE_PASSWORD", "secret")
			t.Setenv("SOCIETY_DATABASE_SSLMODE", "require")
			t.Setenv("SOCIETY_SWAGGER_ENABLED", "true")
		}

		production(t)
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger")

		production(t)
		t.Setenv("SOCIETY_SWAGGER_REQUIRE_AUTH", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.RequireAuth)

		production(t)
		t.Setenv("SOCIETY_SWAGGER_ALLOWED_IPS", "10.0.0.0/8")
		cfg, err = Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Swagger.AllowedIPs)
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("SOCIETY_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "app",
		Password: "p@ss word",
		DBName:   "master",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/master?sslmode=disable", d.DSN())
}
