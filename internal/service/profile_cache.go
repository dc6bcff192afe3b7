package service

import (
	"context"
	"encoding/json"
	"time"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/logger"
	"pitchperfect/pkg/redis"
)

// ProfileCache is a TTL-bound cache-aside layer over profile fetches. A nil
// cache (redis not configured) degrades to direct fetches everywhere.
type ProfileCache struct {
	redis  *redis.Client
	logger *logger.Logger
}

// NewProfileCache creates a profile cache on top of a redis client
func NewProfileCache(redisClient *redis.Client, log *logger.Logger) *ProfileCache {
	return &ProfileCache{
		redis:  redisClient,
		logger: log,
	}
}

// Get returns the cached profile for a user, or nil on miss. Cache errors are
// logged and treated as misses.
func (c *ProfileCache) Get(ctx context.Context, userID string) *domain.UserProfile {
	if c == nil || userID == "" {
		return nil
	}

	key := c.redis.KeyBuilder.KeyUserProfile(userID)
	cached, err := c.redis.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			c.logger.WithError(err).WithField("user_id", userID).Warn("Profile cache read failed")
		}
		return nil
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(cached), &profile); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Profile cache entry corrupted")
		return nil
	}

	c.logger.WithField("user_id", userID).Debug("Profile cache hit")
	return &profile
}

// Set stores a profile asynchronously, fire-and-forget
func (c *ProfileCache) Set(profile *domain.UserProfile) {
	if c == nil || profile == nil || profile.UserID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(profile)
		if err != nil {
			c.logger.WithError(err).Error("Failed to marshal profile for caching")
			return
		}

		key := c.redis.KeyBuilder.KeyUserProfile(profile.UserID)
		if err := c.redis.Set(ctx, key, string(data), redis.TTLUserProfile); err != nil {
			c.logger.WithError(err).WithField("user_id", profile.UserID).Warn("Failed to cache profile")
		}
	}()
}

// Invalidate drops the cached profile for a user
func (c *ProfileCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || userID == "" {
		return
	}

	key := c.redis.KeyBuilder.KeyUserProfile(userID)
	if err := c.redis.Delete(ctx, key); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate cached profile")
	}
}
