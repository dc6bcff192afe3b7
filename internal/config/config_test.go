package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 3, cfg.TokenMaxAttempts)
	assert.Equal(t, time.Second, cfg.TokenRetryDelay)
	assert.Equal(t, 20, cfg.ContextWindowSize)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("TOKEN_MAX_ATTEMPTS", "5")
	t.Setenv("TOKEN_RETRY_DELAY", "500ms")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5, cfg.TokenMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.TokenRetryDelay)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("TOKEN_MAX_ATTEMPTS", "many")
	t.Setenv("TOKEN_RETRY_DELAY", "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TokenMaxAttempts)
	assert.Equal(t, time.Second, cfg.TokenRetryDelay)
}

func TestTokenURL(t *testing.T) {
	cfg := &Config{Auth0Domain: "tenant.auth0.com"}
	assert.Equal(t, "https://tenant.auth0.com/oauth/token", cfg.TokenURL())

	cfg = &Config{}
	assert.Empty(t, cfg.TokenURL())
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{"single origin", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"multiple with spaces", "a.com, b.com ,c.com", []string{"a.com", "b.com", "c.com"}},
		{"empty string", "", []string{}},
		{"dangling commas", ",a.com,,", []string{"a.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrigins(tt.origins))
		})
	}
}
