package onboarding

import (
	"context"

	"github.com/go-playground/validator/v10"

	"pitchperfect/internal/domain"
	"pitchperfect/pkg/logger"
)

// API is the slice of the backend client the flow submits through
type API interface {
	UpdateOnboardingData(ctx context.Context, data domain.OnboardingData) (*domain.OnboardingResponse, error)
}

// Step indices. The sequence is linear: no branching, no skipping.
const (
	StepBossType = iota + 1
	StepRole
	StepConfidence
	StepGoals

	TotalSteps = StepGoals
)

// Flow walks the user through the onboarding questionnaire one step at a
// time and submits the collected answers as one unit on completion.
type Flow struct {
	api      API
	log      *logger.Logger
	validate *validator.Validate

	step int
	data domain.OnboardingData
}

// NewFlow creates a flow positioned on the first step
func NewFlow(api API, log *logger.Logger) *Flow {
	return &Flow{
		api:      api,
		log:      log,
		validate: validator.New(),
		step:     StepBossType,
	}
}

// Step returns the current step index, in [1, TotalSteps]
func (f *Flow) Step() int {
	return f.step
}

// Data returns the answers accumulated so far
func (f *Flow) Data() domain.OnboardingData {
	return f.data
}

// SetBossType records the boss type answer
func (f *Flow) SetBossType(v string) {
	f.data.BossType = v
}

// SetRole records the role answer
func (f *Flow) SetRole(v string) {
	f.data.Role = v
}

// SetConfidence records the confidence answer, on a 0-10 scale
func (f *Flow) SetConfidence(v int) {
	f.data.Confidence = v
}

// SetGoals records the selected goals
func (f *Flow) SetGoals(v []string) {
	f.data.Goals = v
}

// CanAdvance reports whether the current step's bound field is filled in
func (f *Flow) CanAdvance() bool {
	switch f.step {
	case StepBossType:
		return f.data.BossType != ""
	case StepRole:
		return f.data.Role != ""
	case StepConfidence:
		return f.data.Confidence != 0
	case StepGoals:
		return len(f.data.Goals) > 0
	default:
		return false
	}
}

// Next advances to the following step. On the final step it instead submits
// the questionnaire and reports the flow finished. A step whose required
// field is still empty blocks: no state change, both returns false.
// Submission failure is logged but does not block completion.
func (f *Flow) Next(ctx context.Context) (finished bool, advanced bool) {
	if !f.CanAdvance() {
		return false, false
	}

	if f.step < TotalSteps {
		f.step++
		return false, true
	}

	if err := f.validate.Struct(f.data); err != nil {
		// Step gating should make this unreachable; treat it as blocked
		f.log.WithError(err).Warn("Onboarding data failed validation")
		return false, false
	}

	if _, err := f.api.UpdateOnboardingData(ctx, f.data); err != nil {
		f.log.WithError(err).Warn("Onboarding submission failed, continuing anyway")
	} else {
		f.log.WithField("boss_type", f.data.BossType).Info("Onboarding data submitted")
	}

	return true, true
}

// Back returns to the previous step; on the first step it is a no-op
func (f *Flow) Back() {
	if f.step > StepBossType {
		f.step--
	}
}
