package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 4, cfg.Dispatcher.Workers)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=recipe_social sslmode=disable", cfg.Database.DSN())
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_DATABASE_DRIVER", "sqlite")
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_RATELIMIT_BURST", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "release without secret", mutate: func(c *Config) { c.Server.Mode = "release" }, wantErr: true},
		{name: "release with secret", mutate: func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
		}},
		{name: "zero rps", mutate: func(c *Config) { c.RateLimit.RPS = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Server:    ServerConfig{Mode: "debug"},
				Database:  DatabaseConfig{Driver: "postgres"},
				RateLimit: RateLimitConfig{Enabled: true, RPS: 10, Burst: 10},
			}
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdirTemp 切到空目录，避免读到仓库里的 config.yaml/.env
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
