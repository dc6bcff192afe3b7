package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

// SyncAPI is the slice of the backend client the sync service uses
type SyncAPI interface {
	SyncUser(ctx context.Context) (*domain.UserProfile, error)
	GetUserProfile(ctx context.Context) (*domain.UserProfile, error)
	GetUserStatus(ctx context.Context) (*domain.SyncStatus, error)
}

// syncThrottle is the minimum gap between failed sync attempts
const syncThrottle = 30 * time.Second

// SyncService keeps the backend's user record in step with the identity
// session and holds the profile as a read-mostly cached copy
type SyncService struct {
	api   SyncAPI
	cache *ProfileCache
	log   *logger.Logger

	mu          sync.Mutex
	profile     *domain.UserProfile
	synced      bool
	lastAttempt time.Time

	now func() time.Time
}

// NewSyncService creates a sync service. cache may be nil.
func NewSyncService(api SyncAPI, cache *ProfileCache, log *logger.Logger) *SyncService {
	return &SyncService{
		api:   api,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Synced reports whether the user has been synced this session
func (s *SyncService) Synced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced
}

// Sync pushes the session identity into the backend database. The
// token-not-ready condition is expected during session establishment and is
// reported as no profile without an error; repeated failed attempts are
// throttled.
func (s *SyncService) Sync(ctx context.Context) (*domain.UserProfile, error) {
	s.mu.Lock()
	if s.synced {
		profile := s.profile
		s.mu.Unlock()
		return profile, nil
	}
	if !s.lastAttempt.IsZero() && s.now().Sub(s.lastAttempt) < syncThrottle {
		s.mu.Unlock()
		s.log.Debug("Skipping user sync, last attempt too recent")
		return nil, nil
	}
	s.lastAttempt = s.now()
	s.mu.Unlock()

	profile, err := s.api.SyncUser(ctx)
	if err != nil {
		if errors.IsTokenNotReady(err) {
			s.log.Debug("Token not ready yet, user sync deferred")
			return nil, nil
		}
		s.log.WithError(err).Warn("User sync failed")
		return nil, err
	}

	s.mu.Lock()
	s.profile = profile
	s.synced = true
	s.mu.Unlock()

	s.cache.Set(profile)
	s.log.WithField("user_id", profile.UserID).Info("User synced with database")
	return profile, nil
}

// Profile returns the user profile, preferring the in-memory copy, then the
// cache, then the backend. userID may be empty when the session subject is
// not known yet; the cache is only consulted when it is given.
func (s *SyncService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.Lock()
	if s.profile != nil {
		profile := s.profile
		s.mu.Unlock()
		return profile, nil
	}
	s.mu.Unlock()

	if cached := s.cache.Get(ctx, userID); cached != nil {
		s.mu.Lock()
		s.profile = cached
		s.mu.Unlock()
		return cached, nil
	}

	profile, err := s.api.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	s.cache.Set(profile)
	return profile, nil
}

// Status checks the backend's sync record. A 401 means the user is not yet
// synced, which is a normal pre-sync state, not a display error.
func (s *SyncService) Status(ctx context.Context) (*domain.SyncStatus, error) {
	status, err := s.api.GetUserStatus(ctx)
	if err != nil {
		if errors.HTTPStatus(err) == http.StatusUnauthorized {
			return &domain.SyncStatus{Synced: false}, nil
		}
		return nil, err
	}
	return status, nil
}

// Reset clears session state, for logout
func (s *SyncService) Reset(ctx context.Context) {
	s.mu.Lock()
	userID := ""
	if s.profile != nil {
		userID = s.profile.UserID
	}
	s.profile = nil
	s.synced = false
	s.lastAttempt = time.Time{}
	s.mu.Unlock()

	if userID != "" {
		s.cache.Invalidate(ctx, userID)
	}
}
