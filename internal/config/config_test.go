package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		viper.Reset()

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.App.HTTPPort)
		assert.Equal(t, 15, cfg.App.ShutdownTimeoutSeconds)
		assert.Equal(t, "us-east-1", cfg.Store.Region)
		assert.Empty(t, cfg.Store.TableName)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 300, cfg.Redis.CacheTTL)
		assert.Equal(t, "debug", cfg.Logger.Level)
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		viper.Reset()
		t.Setenv("TABLE_NAME", "users-prod")
		t.Setenv("HTTP_PORT", "9090")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("DYNAMODB_ENDPOINT", "http://localhost:8000")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "users-prod", cfg.Store.TableName)
		assert.Equal(t, "9090", cfg.App.HTTPPort)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "http://localhost:8000", cfg.Store.Endpoint)
	})

	t.Run("Production Logger Defaults", func(t *testing.T) {
		viper.Reset()
		t.Setenv("APP_ENV", "production")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Logger.Level)
		assert.Equal(t, "json", cfg.Logger.Format)
		assert.True(t, cfg.Logger.EnableSampling)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:   AppConfig{HTTPPort: "8080"},
			Store: StoreConfig{TableName: "users", Region: "us-east-1"},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Missing Table Name", func(t *testing.T) {
		cfg := valid()
		cfg.Store.TableName = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TABLE_NAME")
	})

	t.Run("Missing Region", func(t *testing.T) {
		cfg := valid()
		cfg.Store.Region = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AWS_REGION")
	})

	t.Run("Missing Port", func(t *testing.T) {
		cfg := valid()
		cfg.App.HTTPPort = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP_PORT")
	})
}
