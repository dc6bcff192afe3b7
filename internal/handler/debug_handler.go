package handler

import (
	"encoding/json"
	"net/http"

	"pitchperfect/internal/container"
	"pitchperfect/internal/token"
)

// DebugHandler exposes session and token diagnostics. It is registered
// outside production only.
type DebugHandler struct {
	container *container.Container
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(c *container.Container) *DebugHandler {
	return &DebugHandler{container: c}
}

// debugResponse mirrors what an operator needs to diagnose a broken session:
// whether a token exists and its claims, plus which provider settings are set
type debugResponse struct {
	Token       *token.Info       `json:"token,omitempty"`
	TokenError  string            `json:"token_error,omitempty"`
	Environment map[string]string `json:"environment"`
}

// Debug handles GET /api/auth/debug
func (h *DebugHandler) Debug(w http.ResponseWriter, r *http.Request) {
	cfg := h.container.GetConfig()
	log := h.container.GetLogger()

	resp := debugResponse{
		Environment: map[string]string{
			"domain":       presence(cfg.Auth0Domain),
			"client_id":    presence(cfg.Auth0ClientID),
			"audience":     presence(cfg.Auth0Audience),
			"api_base_url": cfg.APIBaseURL,
		},
	}

	tok, err := h.container.GetTokenProvider().GetAccessToken(r.Context())
	if err != nil {
		resp.TokenError = err.Error()
	} else if info, err := token.Inspect(tok); err != nil {
		resp.TokenError = err.Error()
	} else {
		resp.Token = info
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Error("Failed to encode debug response")
	}
}

func presence(v string) string {
	if v == "" {
		return "unset"
	}
	return "set"
}
