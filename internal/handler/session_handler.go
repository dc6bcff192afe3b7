package handler

import (
	"encoding/json"
	"net/http"

	"pitchperfect/internal/container"
	"pitchperfect/internal/domain"
	"pitchperfect/internal/token"
	apperrors "pitchperfect/pkg/errors"
)

// SessionHandler exposes the session-sync surface the dashboard consumes:
// profile fetch, explicit sync, and sync status.
type SessionHandler struct {
	container *container.Container
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(c *container.Container) *SessionHandler {
	return &SessionHandler{container: c}
}

// Sync handles POST /api/session/sync
func (h *SessionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	profile, err := h.container.GetSyncService().Sync(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if profile == nil {
		// Token not ready or attempt throttled; the caller should retry later
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{"synced": false})
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		log.WithError(err).Error("Failed to encode profile response")
	}
}

// Profile handles GET /api/session/profile
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	// The token subject keys the profile cache when it is readable
	userID := h.sessionSubject(r)

	profile, err := h.container.GetSyncService().Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		log.WithError(err).Error("Failed to encode profile response")
	}
}

// Onboarding handles GET /api/session/onboarding. Answers are served from the
// TTL cache when present, otherwise fetched from the backend and cached.
func (h *SessionHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()
	cache := h.container.GetOnboardingCache()

	userID := h.sessionSubject(r)

	if data := cache.Get(r.Context(), userID); data != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(domain.OnboardingResponse{Success: true, Onboarding: data}); err != nil {
			log.WithError(err).Error("Failed to encode onboarding response")
		}
		return
	}

	resp, err := h.container.GetAPIClient().GetOnboardingData(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if resp.Onboarding != nil {
		cache.Set(userID, resp.Onboarding)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("Failed to encode onboarding response")
	}
}

// Status handles GET /api/session/status
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	log := h.container.GetLogger()

	status, err := h.container.GetSyncService().Status(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.WithError(err).Error("Failed to encode status response")
	}
}

// sessionSubject derives the cache key from the token's unverified subject
// claim, empty when the token is unavailable or unreadable
func (h *SessionHandler) sessionSubject(r *http.Request) string {
	tok, err := h.container.GetTokenProvider().GetAccessToken(r.Context())
	if err != nil {
		return ""
	}
	info, err := token.Inspect(tok)
	if err != nil {
		return ""
	}
	return info.Subject
}

func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	h.container.GetLogger().WithError(err).Error("Session request failed")

	status := http.StatusInternalServerError
	message := "internal error"
	if appErr, ok := apperrors.AsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
