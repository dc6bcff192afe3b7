package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/logger"
)

// API is the slice of the backend client the store drives
type API interface {
	GetConversations(ctx context.Context) (*domain.ConversationListResponse, error)
	CreateConversation(ctx context.Context, title string) (*domain.CreateConversationResponse, error)
	GetConversation(ctx context.Context, id string) (*domain.GetConversationResponse, error)
	SendMessage(ctx context.Context, conversationID, message string, contextWindowSize int) (*domain.SendMessageResponse, error)
	DeleteConversation(ctx context.Context, id string) (*domain.DeleteConversationResponse, error)
	UpdateConversationTitle(ctx context.Context, id string) (*domain.UpdateTitleResponse, error)
}

// autoTitleThreshold is the message count at which a conversation still named
// with the default placeholder gets an asynchronous title update
const autoTitleThreshold = 4

// DefaultContextWindowSize is the number of prior messages sent with a turn
// unless configured otherwise
const DefaultContextWindowSize = 20

// Store holds the chat session state: conversation list, active conversation,
// message history and the loading/error flags. It is an explicit injected
// object, not a process-wide singleton. All state is ephemeral.
type Store struct {
	mu  sync.Mutex
	api API
	log *logger.Logger

	conversations     []domain.Conversation
	current           *domain.Conversation
	messages          []domain.Message
	loading           bool
	lastError         string
	contextWindowSize int

	// seq invalidates in-flight responses once the active conversation
	// changes; only the latest load's response may touch shared state
	seq uint64

	now func() time.Time
}

// NewStore creates an empty chat store
func NewStore(api API, log *logger.Logger) *Store {
	return &Store{
		api:               api,
		log:               log,
		contextWindowSize: DefaultContextWindowSize,
		now:               time.Now,
	}
}

// Conversations returns a copy of the conversation list
func (s *Store) Conversations() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Current returns the active conversation, or nil
func (s *Store) Current() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Messages returns a copy of the active message history
func (s *Store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether an async action is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded error message, empty when none
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ContextWindowSize returns the configured context window size
func (s *Store) ContextWindowSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextWindowSize
}

// SetContextWindowSize overrides the context window size
func (s *Store) SetContextWindowSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size > 0 {
		s.contextWindowSize = size
	}
}

// ClearError clears the error slot
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// ClearChat drops the active conversation and its messages. The conversation
// list is kept.
func (s *Store) ClearChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.messages = nil
	s.seq++
}

// FetchConversations replaces the conversation list from the server
func (s *Store) FetchConversations(ctx context.Context) error {
	s.setLoading(true)

	resp, err := s.api.GetConversations(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	s.conversations = resp.Conversations
	return nil
}

// CreateConversation creates a conversation and prepends it to the list
func (s *Store) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	if title == "" {
		title = domain.DefaultConversationTitle
	}
	s.setLoading(true)

	resp, err := s.api.CreateConversation(ctx, title)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return nil, err
	}

	now := s.now()
	conv := domain.Conversation{
		ID:        resp.ConversationID,
		Title:     resp.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Most recently created first
	s.conversations = append([]domain.Conversation{conv}, s.conversations...)
	return &conv, nil
}

// LoadConversation replaces the active conversation and message history
// wholesale from server data. If another load (or clear) supersedes this one
// while the request is in flight, the stale response is dropped.
func (s *Store) LoadConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	s.loading = true
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	resp, err := s.api.GetConversation(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.seq != seq {
		s.log.WithField("conversation_id", id).Debug("Dropping superseded conversation load")
		return nil
	}
	if err != nil {
		s.lastError = err.Error()
		return err
	}

	detail := resp.Conversation
	s.current = &domain.Conversation{
		ID:           detail.ID,
		Title:        detail.Title,
		CreatedAt:    detail.CreatedAt,
		UpdatedAt:    detail.UpdatedAt,
		MessageCount: len(detail.Messages),
	}
	s.messages = make([]domain.Message, len(detail.Messages))
	for i, m := range detail.Messages {
		m.Status = domain.MessageStatusSent
		s.messages[i] = m
	}
	return nil
}

// SendMessage appends the user message optimistically, sends it, then appends
// the assistant reply. When no conversation is active, exactly one is created
// first. A failed send leaves the user message visible but marked failed.
func (s *Store) SendMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	needConversation := s.current == nil
	s.mu.Unlock()

	if needConversation {
		conv, err := s.CreateConversation(ctx, domain.DefaultConversationTitle)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.current = conv
		s.mu.Unlock()
	}

	s.mu.Lock()
	if s.current == nil {
		// The conversation was cleared or deleted between the check above
		// and here; treat the send as superseded
		s.mu.Unlock()
		return nil
	}
	seq := s.seq
	conversationID := s.current.ID
	windowSize := s.contextWindowSize
	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Content:   text,
		Role:      domain.RoleUser,
		Timestamp: s.now(),
		Status:    domain.MessageStatusPending,
	}
	s.messages = append(s.messages, userMsg)
	s.loading = true
	s.mu.Unlock()

	resp, err := s.api.SendMessage(ctx, conversationID, text, windowSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if s.seq != seq {
		// The active conversation changed while the send was in flight
		s.log.WithField("conversation_id", conversationID).Debug("Dropping superseded send result")
		return nil
	}

	if err != nil {
		s.markMessage(userMsg.ID, domain.MessageStatusFailed)
		s.lastError = err.Error()
		return err
	}

	s.markMessage(userMsg.ID, domain.MessageStatusSent)
	s.messages = append(s.messages, domain.Message{
		ID:        uuid.NewString(),
		Content:   resp.Response,
		Role:      domain.RoleAssistant,
		Timestamp: s.now(),
		Status:    domain.MessageStatusSent,
	})

	if s.current != nil && s.current.ID == conversationID {
		s.current.MessageCount = len(s.messages)
		s.current.UpdatedAt = s.now()
		s.replaceConversation(*s.current)
	}

	if resp.ContextWindowSize > 0 && resp.ContextWindowSize != windowSize {
		s.contextWindowSize = resp.ContextWindowSize
	}

	// Auto-naming is fire-and-forget: its failure lands in the error slot
	// without blocking the chat
	if len(s.messages) >= autoTitleThreshold &&
		s.current != nil &&
		s.current.Title == domain.DefaultConversationTitle {
		go s.updateTitle(context.WithoutCancel(ctx), conversationID)
	}

	return nil
}

// UpdateConversationTitle triggers the backend's auto-naming for a
// conversation and applies the returned title
func (s *Store) UpdateConversationTitle(ctx context.Context, id string) error {
	return s.updateTitle(ctx, id)
}

// DeleteConversation removes a conversation. When it was the active one the
// current pointer is cleared; messages stay until the next load or ClearChat.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	_, err := s.api.DeleteConversation(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastError = err.Error()
		return err
	}

	kept := s.conversations[:0]
	for _, conv := range s.conversations {
		if conv.ID != id {
			kept = append(kept, conv)
		}
	}
	s.conversations = kept

	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.seq++
	}
	return nil
}

func (s *Store) updateTitle(ctx context.Context, id string) error {
	resp, err := s.api.UpdateConversationTitle(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.WithError(err).WithField("conversation_id", id).Warn("Conversation auto-naming failed")
		s.lastError = err.Error()
		return err
	}
	if !resp.Success {
		return nil
	}

	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations[i].Title = resp.Title
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current.Title = resp.Title
	}
	return nil
}

// markMessage updates the status of the message with the given id
func (s *Store) markMessage(id string, status domain.MessageStatus) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = status
			return
		}
	}
}

// replaceConversation swaps the list entry matching conv.ID
func (s *Store) replaceConversation(conv domain.Conversation) {
	for i := range s.conversations {
		if s.conversations[i].ID == conv.ID {
			s.conversations[i] = conv
			return
		}
	}
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
