package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

// TokenProvider supplies the session's bearer credential
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// TokenHandler serves the browser-local token route. The retry/backoff and
// shape validation live in the provider; this handler only translates its
// outcome into the route's JSON contract.
type TokenHandler struct {
	provider TokenProvider
	logger   *logger.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(provider TokenProvider, log *logger.Logger) *TokenHandler {
	return &TokenHandler{
		provider: provider,
		logger:   log,
	}
}

// TokenResponse is the success payload of GET /api/auth/token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// tokenErrorResponse is the failure payload of GET /api/auth/token
type tokenErrorResponse struct {
	Error string `json:"error"`
}

// GetToken handles GET /api/auth/token
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.provider.GetAccessToken(r.Context())
	if err != nil {
		h.logger.WithError(err).Warn("Access token retrieval failed")

		w.Header().Set("Content-Type", "application/json")
		if errors.IsAuthentication(err) || errors.IsTokenNotReady(err) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(tokenErrorResponse{Error: "No access token available"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(tokenErrorResponse{Error: "Failed to get access token"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(TokenResponse{AccessToken: tok}); err != nil {
		h.logger.WithError(err).Error("Failed to encode token response")
	}
}
