package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_NAME", "IDENTITY_HEADER", "BCRYPT_COST", "SWEEP_INTERVAL", "SWEEP_REPAIR", "MAX_UPLOAD_SIZE", "GCS_BUCKET"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "hacklingo", cfg.Database.Name)
	assert.Equal(t, "userid", cfg.Auth.IdentityHeader)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.Sweep.Interval)
	assert.False(t, cfg.Sweep.Repair)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxUploadSize)
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IDENTITY_HEADER", "x-user-id")
	t.Setenv("SWEEP_REPAIR", "true")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("GCS_BUCKET", "hacklingo-media")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "x-user-id", cfg.Auth.IdentityHeader)
	assert.True(t, cfg.Sweep.Repair)
	assert.Equal(t, 30*time.Second, cfg.Sweep.Interval)
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: true},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }, wantErr: true},
		{name: "negative sweep interval", mutate: func(c *Config) { c.Sweep.Interval = -time.Second }, wantErr: true},
		{name: "zero sweep interval disables sweeper", mutate: func(c *Config) { c.Sweep.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Host: "localhost", Name: "hacklingo"},
				Storage:  StorageConfig{MaxUploadSize: 1024},
				Auth:     AuthConfig{IdentityHeader: "userid", BcryptCost: 10},
				Sweep:    SweepConfig{Interval: time.Minute},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
