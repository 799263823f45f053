package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 8760*time.Hour, cfg.AuthTokenExpiration)
				assert.Equal(t, "backup_repository", cfg.MetricsNamespace)
				assert.Equal(t, "file:///var/lib/backup-repository?create_dir=true", cfg.StorageURL)
				assert.Equal(t, int64(4<<30), cfg.UploadMaxFileSize)
				assert.Equal(t, 300*time.Second, cfg.URLFetchTimeout)
				assert.Equal(t, 3, cfg.URLFetchRetryMax)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST":                     "localhost",
				"SERVER_PORT":                     "9090",
				"SERVER_SHUTDOWN_TIMEOUT_SECONDS": "5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
				assert.Equal(t, 5*time.Second, cfg.ServerShutdownTimeout)
			},
		},
		{
			name: "load custom storage configuration",
			envVars: map[string]string{
				"STORAGE_URL":                "mem://",
				"UPLOAD_MAX_FILE_SIZE_BYTES": "1048576",
				"URL_FETCH_TIMEOUT_SECONDS":  "10",
				"URL_FETCH_RETRY_MAX":        "0",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mem://", cfg.StorageURL)
				assert.Equal(t, int64(1048576), cfg.UploadMaxFileSize)
				assert.Equal(t, 10*time.Second, cfg.URLFetchTimeout)
				assert.Equal(t, 0, cfg.URLFetchRetryMax)
			},
		},
		{
			name: "load custom auth and rate limit configuration",
			envVars: map[string]string{
				"AUTH_TOKEN_EXPIRATION_HOURS": "24",
				"RATE_LIMIT_ENABLED":          "false",
				"RATE_LIMIT_REQUESTS_PER_SEC": "2.5",
				"RATE_LIMIT_BURST":            "4",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 24*time.Hour, cfg.AuthTokenExpiration)
				assert.False(t, cfg.RateLimitEnabled)
				assert.Equal(t, 2.5, cfg.RateLimitRequestsPerSec)
				assert.Equal(t, 4, cfg.RateLimitBurst)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			tt.validate(t, Load())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			ServerPort:          8080,
			DBDriver:            "postgres",
			DBConnectionString:  "postgres://localhost/db",
			LogLevel:            "info",
			AuthTokenExpiration: time.Hour,
			StorageURL:          "mem://",
			MetricsEnabled:      true,
			MetricsPort:         8081,
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "sqlite"
		assert.ErrorContains(t, cfg.Validate(), "DBDriver")
	})

	t.Run("missing storage url", func(t *testing.T) {
		cfg := valid()
		cfg.StorageURL = ""
		assert.ErrorContains(t, cfg.Validate(), "StorageURL")
	})

	t.Run("metrics port only required when enabled", func(t *testing.T) {
		cfg := valid()
		cfg.MetricsPort = 0
		assert.Error(t, cfg.Validate())

		cfg.MetricsEnabled = false
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_GetGinMode(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "info"}).GetGinMode())
	assert.Equal(t, "release", (&Config{LogLevel: "unknown"}).GetGinMode())
}
