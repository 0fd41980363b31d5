package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "missing secret",
			env:     map[string]string{"JWT_SECRET": ""},
			wantErr: true,
		},
		{
			name:    "short secret",
			env:     map[string]string{"JWT_SECRET": "too-short"},
			wantErr: true,
		},
		{
			name: "defaults",
			env:  map[string]string{"JWT_SECRET": "0123456789abcdef0123456789abcdef"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "8080", cfg.Port)
				assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
				assert.Equal(t, 24, cfg.JWTExpirationHours)
				assert.Equal(t, "14.1.1", cfg.DataDragonFallbackVersion)
				assert.Equal(t, 30*time.Second, cfg.DataDragonTimeout)
				assert.True(t, cfg.SyncOnStartup)
				assert.Equal(t, "en_US", cfg.SyncLanguage)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"JWT_SECRET":              "0123456789abcdef0123456789abcdef",
				"CORS_ALLOWED_ORIGINS":    "http://localhost:5173, https://matchups.example.com",
				"SYNC_ON_STARTUP":         "false",
				"DDRAGON_TIMEOUT_SECONDS": "5",
				"JWT_EXPIRATION_HOURS":    "not-a-number",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://localhost:5173", "https://matchups.example.com"}, cfg.CORSAllowedOrigins)
				assert.False(t, cfg.SyncOnStartup)
				assert.Equal(t, 5*time.Second, cfg.DataDragonTimeout)
				assert.Equal(t, 24, cfg.JWTExpirationHours)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
