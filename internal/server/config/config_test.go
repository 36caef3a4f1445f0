package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddr)
	assert.Equal(t, 12*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 12, cfg.HashCost)
	assert.Equal(t, 6, cfg.PasswordMinLength)
	assert.Equal(t, []string{"/dashboard"}, cfg.ProtectedPathPrefixes)
	assert.Equal(t, "/auth/login", cfg.LoginPath)
	assert.Equal(t, "admingate_session", cfg.CookieName)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty secret",
			mutate:  func(c *Config) { c.SecretKey = "" },
			wantErr: "secret key",
		},
		{
			name:    "hash cost too high",
			mutate:  func(c *Config) { c.HashCost = 99 },
			wantErr: "bcrypt bounds",
		},
		{
			name:    "non-positive lifetime",
			mutate:  func(c *Config) { c.SessionLifetime = 0 },
			wantErr: "session lifetime",
		},
		{
			name:    "relative login path",
			mutate:  func(c *Config) { c.LoginPath = "auth/login" },
			wantErr: "must be absolute",
		},
		{
			name:    "login path under protected prefix",
			mutate:  func(c *Config) { c.LoginPath = "/dashboard/login" },
			wantErr: "falls under protected prefix",
		},
		{
			name:    "login path equals protected prefix",
			mutate:  func(c *Config) { c.LoginPath = "/dashboard" },
			wantErr: "falls under protected prefix",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
