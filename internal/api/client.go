package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

// TokenProvider supplies the bearer credential attached to authenticated calls
type TokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// Client issues JSON requests to the PitchPerfect backend. Retry is the token
// provider's job; a failed call here fails immediately to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	logger     *logger.Logger
}

// NewClient creates an API client against the given base URL (including the
// /api path)
func NewClient(baseURL string, tokens TokenProvider, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: log,
	}
}

// errorBody is the error envelope the backend uses for non-2xx responses
type errorBody struct {
	Error string `json:"error"`
}

// do issues one request. body and out may be nil; authed controls whether a
// bearer credential is attached.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}, authed bool) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError("failed to marshal request body", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.NewInternalError("failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if authed {
		tok, err := c.tokens.GetAccessToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError(fmt.Sprintf("%s %s did not complete", method, path), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		var eb errorBody
		if jsonErr := json.Unmarshal(respBody, &eb); jsonErr == nil && eb.Error != "" {
			message = eb.Error
		}
		c.logger.WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Debug("Backend rejected request")
		return errors.NewHTTPError(resp.StatusCode, message)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.logger.WithFields(map[string]interface{}{
				"path":   path,
				"status": resp.StatusCode,
			}).Error("Failed to parse backend response")
			return errors.NewInternalError("failed to parse backend response", err)
		}
	}

	return nil
}

// GetPublic calls the unauthenticated sanity endpoint
func (c *Client) GetPublic(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/auth/public", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProtected calls the authenticated sanity endpoint
func (c *Client) GetProtected(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/auth/protected", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserProfile fetches the user profile, creating it server-side when absent
func (c *Client) GetUserProfile(ctx context.Context) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncUser pushes the session's identity into the backend database
func (c *Client) SyncUser(ctx context.Context) (*domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.do(ctx, http.MethodPost, "/auth/sync", map[string]interface{}{}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserStatus reports whether the user has been synced to the database
func (c *Client) GetUserStatus(ctx context.Context) (*domain.SyncStatus, error) {
	var out domain.SyncStatus
	if err := c.do(ctx, http.MethodGet, "/auth/status", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAuthConfig fetches the identity provider configuration
func (c *Client) GetAuthConfig(ctx context.Context) (*domain.AuthConfig, error) {
	var out domain.AuthConfig
	if err := c.do(ctx, http.MethodGet, "/auth/config", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck calls the backend liveness endpoint
func (c *Client) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/user/health", nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// PostData submits a generic data payload
func (c *Client) PostData(ctx context.Context, data map[string]interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/user/data", data, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOnboardingData fetches previously submitted onboarding answers
func (c *Client) GetOnboardingData(ctx context.Context) (*domain.OnboardingResponse, error) {
	var out domain.OnboardingResponse
	if err := c.do(ctx, http.MethodGet, "/user/onboarding", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateOnboardingData submits the onboarding questionnaire as one unit.
// Resubmission overwrites the previous answers.
func (c *Client) UpdateOnboardingData(ctx context.Context, data domain.OnboardingData) (*domain.OnboardingResponse, error) {
	var out domain.OnboardingResponse
	if err := c.do(ctx, http.MethodPost, "/user/onboarding", data, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversations lists the user's conversations, most recently created first
func (c *Client) GetConversations(ctx context.Context) (*domain.ConversationListResponse, error) {
	var out domain.ConversationListResponse
	if err := c.do(ctx, http.MethodGet, "/chat/conversations", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateConversation creates a conversation with the given title
func (c *Client) CreateConversation(ctx context.Context, title string) (*domain.CreateConversationResponse, error) {
	var out domain.CreateConversationResponse
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/chat/conversations", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversation fetches one conversation with its full message history
func (c *Client) GetConversation(ctx context.Context, id string) (*domain.GetConversationResponse, error) {
	var out domain.GetConversationResponse
	if err := c.do(ctx, http.MethodGet, "/chat/conversations/"+id, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends a user message in a conversation and returns the
// assistant's reply. contextWindowSize of 0 leaves the backend default.
func (c *Client) SendMessage(ctx context.Context, conversationID, message string, contextWindowSize int) (*domain.SendMessageResponse, error) {
	body := map[string]interface{}{"message": message}
	if contextWindowSize > 0 {
		body["context_window_size"] = contextWindowSize
	}

	var out domain.SendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/chat/conversations/"+conversationID+"/messages", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConversation deletes a conversation
func (c *Client) DeleteConversation(ctx context.Context, id string) (*domain.DeleteConversationResponse, error) {
	var out domain.DeleteConversationResponse
	if err := c.do(ctx, http.MethodDelete, "/chat/conversations/"+id, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateConversationTitle asks the backend to derive a real title for a
// conversation that still carries the default placeholder
func (c *Client) UpdateConversationTitle(ctx context.Context, id string) (*domain.UpdateTitleResponse, error) {
	var out domain.UpdateTitleResponse
	if err := c.do(ctx, http.MethodPut, "/chat/conversations/"+id+"/title", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartRoleplay begins a role-play session from a completed setup
func (c *Client) StartRoleplay(ctx context.Context, setup domain.RoleplaySetup) (*domain.StartRoleplayResponse, error) {
	var out domain.StartRoleplayResponse
	if err := c.do(ctx, http.MethodPost, "/chat/start_roleplay", setup, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContinueRoleplay sends the next user turn together with the scenario
// context and the transcript so far
func (c *Client) ContinueRoleplay(ctx context.Context, roleplayContext string, history []domain.Turn) (*domain.ContinueRoleplayResponse, error) {
	body := map[string]interface{}{
		"roleplay_context":     roleplayContext,
		"conversation_history": history,
	}

	var out domain.ContinueRoleplayResponse
	if err := c.do(ctx, http.MethodPost, "/chat/continue_roleplay", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndRoleplay closes a session, submitting profile and transcript for critique
func (c *Client) EndRoleplay(ctx context.Context, profile domain.RoleplaySetup, history []domain.Turn) (*domain.EndRoleplayResponse, error) {
	body := map[string]interface{}{
		"profile":              profile,
		"conversation_history": history,
	}

	var out domain.EndRoleplayResponse
	if err := c.do(ctx, http.MethodPost, "/chat/end_roleplay", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateScenario calls the legacy scenario generation endpoint
func (c *Client) GenerateScenario(ctx context.Context, profile domain.RoleplaySetup) (*domain.GenerateScenarioResponse, error) {
	var out domain.GenerateScenarioResponse
	if err := c.do(ctx, http.MethodPost, "/generate_scenario", profile, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CritiqueResponse calls the legacy critique endpoint with a single answer
func (c *Client) CritiqueResponse(ctx context.Context, scenario, userResponse string) (*domain.CritiqueResponse, error) {
	body := map[string]string{
		"scenario": scenario,
		"response": userResponse,
	}

	var out domain.CritiqueResponse
	if err := c.do(ctx, http.MethodPost, "/critique_response", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
