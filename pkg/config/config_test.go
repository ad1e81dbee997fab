package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "biashara-api", cfg.App.Name)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Throttle.Attempts)
	assert.Equal(t, 15*time.Minute, cfg.Throttle.Window())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_MINUTES", "5")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("STORAGE_BUCKET", "biashara-media")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.True(t, cfg.App.AutoMigrate)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("sin secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("s3 sin bucket", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("STORAGE_DRIVER", "s3")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "biashara", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/biashara?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
