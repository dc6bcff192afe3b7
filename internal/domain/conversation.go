package domain

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultConversationTitle is the placeholder title given to lazily created
// conversations until the auto-naming call replaces it
const DefaultConversationTitle = "New Conversation"

// MessageStatus tracks the delivery state of an optimistically appended message
type MessageStatus string

const (
	// MessageStatusPending marks a message shown locally before the backend confirmed it
	MessageStatusPending MessageStatus = "pending"
	// MessageStatusSent marks a message the backend has accepted
	MessageStatusSent MessageStatus = "sent"
	// MessageStatusFailed marks a message whose send failed; it stays visible and retryable
	MessageStatusFailed MessageStatus = "failed"
)

// Message is a single chat turn. Messages are appended, never mutated or
// deleted individually; ordering is insertion order.
type Message struct {
	ID        string        `json:"id,omitempty"`
	Content   string        `json:"content"`
	Role      string        `json:"role"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status,omitempty"`
}

// Conversation is a summary entry in the conversation list
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// ConversationDetail is a conversation with its full message history
type ConversationDetail struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationListResponse is the payload of GET /chat/conversations
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// CreateConversationResponse is the payload of POST /chat/conversations
type CreateConversationResponse struct {
	Success        bool   `json:"success"`
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}

// GetConversationResponse is the payload of GET /chat/conversations/:id
type GetConversationResponse struct {
	Conversation ConversationDetail `json:"conversation"`
}

// SendMessageResponse is the payload of POST /chat/conversations/:id/messages
type SendMessageResponse struct {
	Success           bool   `json:"success"`
	Response          string `json:"response"`
	ConversationID    string `json:"conversation_id"`
	Model             string `json:"model,omitempty"`
	ContextWindowSize int    `json:"context_window_size,omitempty"`
}

// DeleteConversationResponse is the payload of DELETE /chat/conversations/:id
type DeleteConversationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UpdateTitleResponse is the payload of PUT /chat/conversations/:id/title
type UpdateTitleResponse struct {
	Success bool   `json:"success"`
	Title   string `json:"title"`
}
