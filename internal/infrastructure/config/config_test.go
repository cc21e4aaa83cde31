package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"STORE_APP_NAME":                os.Getenv("STORE_APP_NAME"),
		"STORE_APP_ENV":                 os.Getenv("STORE_APP_ENV"),
		"STORE_APP_PORT":                os.Getenv("STORE_APP_PORT"),
		"STORE_DATABASE_HOST":           os.Getenv("STORE_DATABASE_HOST"),
		"STORE_DATABASE_PORT":           os.Getenv("STORE_DATABASE_PORT"),
		"STORE_DATABASE_USER":           os.Getenv("STORE_DATABASE_USER"),
		"STORE_DATABASE_PASSWORD":       os.Getenv("STORE_DATABASE_PASSWORD"),
		"STORE_DATABASE_DBNAME":         os.Getenv("STORE_DATABASE_DBNAME"),
		"STORE_DATABASE_SSLMODE":        os.Getenv("STORE_DATABASE_SSLMODE"),
		"STORE_DATABASE_MAX_OPEN_CONNS": os.Getenv("STORE_DATABASE_MAX_OPEN_CONNS"),
		"STORE_DATABASE_MAX_IDLE_CONNS": os.Getenv("STORE_DATABASE_MAX_IDLE_CONNS"),
		"STORE_JWT_SECRET":              os.Getenv("STORE_JWT_SECRET"),
		"STORE_SESSION_TTL":             os.Getenv("STORE_SESSION_TTL"),
		"STORE_COOKIE_SECURE":           os.Getenv("STORE_COOKIE_SECURE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "estore-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "estore", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "store_session", cfg.Session.CookieName)
		assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	})

	t.Run("loads values from environment variables with STORE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("STORE_APP_NAME", "test-store")
		os.Setenv("STORE_APP_PORT", "9000")
		os.Setenv("STORE_DATABASE_HOST", "testdb.local")
		os.Setenv("STORE_DATABASE_PORT", "5433")
		os.Setenv("STORE_DATABASE_USER", "testuser")
		os.Setenv("STORE_DATABASE_PASSWORD", "testpass")
		os.Setenv("STORE_SESSION_TTL", "48h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-store", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 48*time.Hour, cfg.Session.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("STORE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("STORE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("STORE_APP_ENV", "production")
		os.Setenv("STORE_DATABASE_PASSWORD", "testpass")
		os.Setenv("STORE_DATABASE_SSLMODE", "require")
		os.Setenv("STORE_COOKIE_SECURE", "true")
		os.Setenv("STORE_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "store",
		Password: "p@ss:word/with?chars",
		DBName:   "estore",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in password are escaped
	assert.NotContains(t, dsn, "p@ss:word/with?chars")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
