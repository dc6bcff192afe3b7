package roleplay

import (
	"context"
	"strings"
	"sync"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/errors"
	"pitchperfect/pkg/logger"
)

// API is the slice of the backend client driving the role-play lifecycle
type API interface {
	StartRoleplay(ctx context.Context, setup domain.RoleplaySetup) (*domain.StartRoleplayResponse, error)
	ContinueRoleplay(ctx context.Context, roleplayContext string, history []domain.Turn) (*domain.ContinueRoleplayResponse, error)
	EndRoleplay(ctx context.Context, profile domain.RoleplaySetup, history []domain.Turn) (*domain.EndRoleplayResponse, error)
}

// Phase is the session lifecycle state
type Phase string

const (
	// PhaseSetup collects scenario parameters
	PhaseSetup Phase = "setup"
	// PhaseActive is the bidirectional turn exchange
	PhaseActive Phase = "active"
	// PhaseConcluded is terminal: the critique is displayed, no more sends
	PhaseConcluded Phase = "concluded"
)

// Session is the role-play controller. Transitions: Setup -> Active on a
// successful start with complete setup, Active -> Concluded on end. Network
// failures surface an inline error without changing phase.
type Session struct {
	mu  sync.Mutex
	api API
	log *logger.Logger

	phase    Phase
	setup    domain.RoleplaySetup
	context  string
	history  []domain.Turn
	critique string

	lastError string
	loading   bool
}

// NewSession creates a session in the Setup phase
func NewSession(api API, log *logger.Logger) *Session {
	return &Session{
		api:   api,
		log:   log,
		phase: PhaseSetup,
	}
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Setup returns the scenario parameters collected so far
func (s *Session) Setup() domain.RoleplaySetup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setup
}

// SetSetup replaces the scenario parameters; only valid during Setup
func (s *Session) SetSetup(setup domain.RoleplaySetup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSetup {
		s.setup = setup
	}
}

// History returns a copy of the transcript
func (s *Session) History() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Critique returns the final critique text, empty until Concluded
func (s *Session) Critique() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.critique
}

// Err returns the last inline error, empty when none
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Loading reports whether a backend call is in flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Start begins the role-play. It requires the Setup phase and a fully
// populated setup; on success the scenario opener is seeded as the first
// assistant turn and the session becomes Active.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseSetup {
		s.mu.Unlock()
		return errors.NewValidationError("session already started", nil)
	}
	if missing := s.setup.Missing(); len(missing) > 0 {
		s.mu.Unlock()
		return errors.NewValidationError("setup incomplete", map[string]interface{}{
			"missing": strings.Join(missing, ", "),
		})
	}
	setup := s.setup
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	resp, err := s.api.StartRoleplay(ctx, setup)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	if !resp.Success {
		s.lastError = failureMessage(resp.Error, "failed to start roleplay")
		return errors.NewInternalError(s.lastError, nil)
	}

	s.context = resp.RoleplayPrompt
	s.history = []domain.Turn{{Role: domain.RoleAssistant, Content: resp.ScenarioAndResponse}}
	s.phase = PhaseActive
	s.log.WithField("scenario_type", setup.ScenarioType).Info("Roleplay session started")
	return nil
}

// Send exchanges one turn: the user's input is appended to the transcript and
// sent with the full history; the partner's reply is appended on return. On
// failure the user turn is rolled back so the same turn can be retried, and
// the phase does not change.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		s.mu.Lock()
		s.lastError = "please enter a response"
		s.mu.Unlock()
		return errors.NewValidationError("empty response", nil)
	}

	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		return errors.NewValidationError("session is not active", nil)
	}
	s.history = append(s.history, domain.Turn{Role: domain.RoleUser, Content: text})
	history := make([]domain.Turn, len(s.history))
	copy(history, s.history)
	rpContext := s.context
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	resp, err := s.api.ContinueRoleplay(ctx, rpContext, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		s.lastError = err.Error()
		return err
	}
	if !resp.Success {
		s.history = s.history[:len(s.history)-1]
		s.lastError = failureMessage(resp.Error, "failed to continue roleplay")
		return errors.NewInternalError(s.lastError, nil)
	}

	s.history = append(s.history, domain.Turn{Role: domain.RoleAssistant, Content: resp.Response})
	return nil
}

// End closes the session: the full transcript and profile go to the backend
// for critique and the session becomes Concluded. Concluded is terminal.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		return errors.NewValidationError("session is not active", nil)
	}
	setup := s.setup
	history := make([]domain.Turn, len(s.history))
	copy(history, s.history)
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	resp, err := s.api.EndRoleplay(ctx, setup, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return err
	}
	if !resp.Success {
		s.lastError = failureMessage(resp.Error, "failed to get critique")
		return errors.NewInternalError(s.lastError, nil)
	}

	s.critique = resp.Critique
	s.phase = PhaseConcluded
	s.log.WithField("turns", len(history)).Info("Roleplay session concluded")
	return nil
}

func failureMessage(got, fallback string) string {
	if got != "" {
		return got
	}
	return fallback
}
