package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) GetAccessToken(ctx context.Context) (string, error) {
	return s.token, s.err
}

func newTestClient(serverURL string) *Client {
	return NewClient(serverURL, staticTokens{token: "a.b.c"}, logger.NewNop())
}

func TestClient_GetUserProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/profile", r.URL.Path)
		assert.Equal(t, "Bearer a.b.c", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.UserProfile{
			UserID: "auth0|123",
			Email:  "user@example.com",
			Name:   "Test User",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	profile, err := client.GetUserProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "auth0|123", profile.UserID)
	assert.Equal(t, "user@example.com", profile.Email)
}

func TestClient_GetPublic_NoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"public endpoint"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	out, err := client.GetPublic(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "public endpoint", out["message"])
}

func TestClient_TokenFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the backend without a token")
	}))
	defer server.Close()

	tokenErr := errors.NewAuthenticationError("session expired")
	client := NewClient(server.URL, staticTokens{err: tokenErr}, logger.NewNop())

	_, err := client.GetUserProfile(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
}

func TestClient_ErrorBodyParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Conversation not found"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetConversation(context.Background(), "missing-id")

	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTypeHTTP, appErr.Type)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
	assert.Equal(t, "Conversation not found", appErr.Message)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.HealthCheck(context.Background())

	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := newTestClient(server.URL)
	_, err := client.HealthCheck(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
}

func TestClient_SendMessage(t *testing.T) {
	tests := []struct {
		name              string
		contextWindowSize int
		wantWindowField   bool
	}{
		{
			name:              "explicit context window",
			contextWindowSize: 20,
			wantWindowField:   true,
		},
		{
			name:              "zero leaves backend default",
			contextWindowSize: 0,
			wantWindowField:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/chat/conversations/conv-1/messages", r.URL.Path)

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "hello", body["message"])

				_, hasWindow := body["context_window_size"]
				assert.Equal(t, tt.wantWindowField, hasWindow)

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(domain.SendMessageResponse{
					Success:        true,
					Response:       "hi there",
					ConversationID: "conv-1",
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			resp, err := client.SendMessage(context.Background(), "conv-1", "hello", tt.contextWindowSize)

			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, "hi there", resp.Response)
		})
	}
}

func TestClient_CreateConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, domain.DefaultConversationTitle, body["title"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.CreateConversationResponse{
			Success:        true,
			ConversationID: "conv-new",
			Title:          domain.DefaultConversationTitle,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.CreateConversation(context.Background(), domain.DefaultConversationTitle)

	require.NoError(t, err)
	assert.Equal(t, "conv-new", resp.ConversationID)
}

func TestClient_ContinueRoleplay(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "You walk into my office."},
		{Role: domain.RoleUser, Content: "Thanks for making time."},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/continue_roleplay", r.URL.Path)

		var body struct {
			RoleplayContext     string        `json:"roleplay_context"`
			ConversationHistory []domain.Turn `json:"conversation_history"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "salary negotiation with a skeptical boss", body.RoleplayContext)
		assert.Len(t, body.ConversationHistory, 2)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.ContinueRoleplayResponse{
			Success:  true,
			Response: "I only have five minutes.",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.ContinueRoleplay(context.Background(), "salary negotiation with a skeptical boss", history)

	require.NoError(t, err)
	assert.Equal(t, "I only have five minutes.", resp.Response)
}

func TestClient_DeleteConversation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/chat/conversations/conv-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(domain.DeleteConversationResponse{Success: true, Message: "deleted"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.DeleteConversation(context.Background(), "conv-1")

	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestClient_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversations": not-json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetConversations(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}
