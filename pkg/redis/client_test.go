package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestClient_SetGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "staging:profile:auth0|123", "value", time.Minute))

	got, err := client.Get(ctx, "staging:profile:auth0|123")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestClient_GetMissingKey(t *testing.T) {
	client, _ := setupTestRedis(t)

	_, err := client.Get(context.Background(), "staging:profile:nobody")

	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestClient_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", time.Minute))
	require.NoError(t, client.Set(ctx, "k2", "v2", time.Minute))

	require.NoError(t, client.Delete(ctx, "k1", "k2"))

	n, err := client.Exists(ctx, "k1", "k2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClient_Expiration(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "ephemeral", "v", TTLUserProfile))

	mr.FastForward(TTLUserProfile + time.Second)

	_, err := client.Get(ctx, "ephemeral")
	assert.True(t, IsNil(err))
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not-a-redis-url", "test")
	assert.Error(t, err)
}

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantPrefix  string
	}{
		{"development maps to staging", "development", "staging"},
		{"staging maps to staging", "staging", "staging"},
		{"test maps to staging", "test", "staging"},
		{"production maps to prod", "production", "prod"},
		{"unknown defaults to prod", "", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
			assert.Equal(t, tt.wantPrefix+":profile:auth0|123", kb.KeyUserProfile("auth0|123"))
			assert.Equal(t, tt.wantPrefix+":onboarding:auth0|123", kb.KeyOnboardingData("auth0|123"))
		})
	}
}
