package container

import (
	"context"

	"pitchperfect/internal/api"
	"pitchperfect/internal/config"
	"pitchperfect/internal/service"
	"pitchperfect/internal/token"
	"pitchperfect/pkg/logger"
	"pitchperfect/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *logger.Logger
	RedisClient     *redis.Client
	TokenProvider   *token.Provider
	APIClient       *api.Client
	SyncService     *service.SyncService
	OnboardingCache *service.OnboardingCache
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	// Redis is optional: without it the profile cache degrades to direct fetches
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	source, err := token.NewAuth0Source(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokenProvider := token.NewProvider(source, token.RetryPolicy{
		MaxAttempts: cfg.TokenMaxAttempts,
		BaseDelay:   cfg.TokenRetryDelay,
	}, log)

	apiClient := api.NewClient(cfg.APIBaseURL, tokenProvider, log)

	var profileCache *service.ProfileCache
	var onboardingCache *service.OnboardingCache
	if redisClient != nil {
		profileCache = service.NewProfileCache(redisClient, log)
		onboardingCache = service.NewOnboardingCache(redisClient, log)
	}
	syncService := service.NewSyncService(apiClient, profileCache, log)

	return &Container{
		Config:          cfg,
		Logger:          log,
		RedisClient:     redisClient,
		TokenProvider:   tokenProvider,
		APIClient:       apiClient,
		SyncService:     syncService,
		OnboardingCache: onboardingCache,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetTokenProvider returns the token provider
func (c *Container) GetTokenProvider() *token.Provider {
	return c.TokenProvider
}

// GetAPIClient returns the backend API client
func (c *Container) GetAPIClient() *api.Client {
	return c.APIClient
}

// GetSyncService returns the user sync service
func (c *Container) GetSyncService() *service.SyncService {
	return c.SyncService
}

// GetOnboardingCache returns the onboarding cache, nil without redis
func (c *Container) GetOnboardingCache() *service.OnboardingCache {
	return c.OnboardingCache
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
