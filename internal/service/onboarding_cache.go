package service

import (
	"context"
	"encoding/json"
	"time"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/logger"
	"pitchperfect/pkg/redis"
)

// OnboardingCache is the onboarding-answer companion to ProfileCache: a
// TTL-bound cache-aside layer that is nil-safe when redis is not configured.
type OnboardingCache struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewOnboardingCache creates an onboarding cache on top of a redis client
func NewOnboardingCache(redisClient *redis.Client, log *logger.Logger) *OnboardingCache {
	return &OnboardingCache{
		redis:  redisClient,
		logger: log,
	}
}

// Get returns the cached onboarding answers for a user, or nil on miss. Cache
// errors are logged and treated as misses.
func (c *OnboardingCache) Get(ctx context.Context, userID string) *domain.OnboardingData {
	if c == nil || userID == "" {
		return nil
	}

	key := c.redis.KeyBuilder.KeyOnboardingData(userID)
	cached, err := c.redis.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.WithError(err).WithField("user_id", userID).Warn("Onboarding cache read failed")
		}
		return nil
	}

	var data domain.OnboardingData
	if err := json.Unmarshal([]byte(cached), &data); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Onboarding cache entry corrupted")
		return nil
	}

	c.logger.WithField("user_id", userID).Debug("Onboarding cache hit")
	return &data
}

// Set stores onboarding answers asynchronously, fire-and-forget
func (c *OnboardingCache) Set(userID string, data *domain.OnboardingData) {
	if c == nil || userID == "" || data == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(data)
		if err != nil {
			c.logger.WithError(err).Error("Failed to marshal onboarding data for caching")
			return
		}

		key := c.redis.KeyBuilder.KeyOnboardingData(userID)
		if err := c.redis.Set(ctx, key, string(payload), redis.TTLOnboardingData); err != nil {
			c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to cache onboarding data")
		}
	}()
}

// Invalidate drops the cached onboarding answers for a user
func (c *OnboardingCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || userID == "" {
		return
	}

	key := c.redis.KeyBuilder.KeyOnboardingData(userID)
	if err := c.redis.Delete(ctx, key); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate cached onboarding data")
	}
}
