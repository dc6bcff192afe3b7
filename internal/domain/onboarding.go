package domain

// OnboardingData is the questionnaire payload collected across the onboarding
// steps and submitted as one unit at flow completion. Resubmission overwrites.
type OnboardingData struct {
	BossType   string   `json:"boss_type" validate:"required"`
	Role       string   `json:"role,omitempty"`
	Confidence int      `json:"confidence,omitempty" validate:"gte=0,lte=10"`
	Goals      []string `json:"goals,omitempty"`
}

// OnboardingResponse is the payload of GET/POST /user/onboarding
type OnboardingResponse struct {
	Success    bool            `json:"success"`
	Onboarding *OnboardingData `json:"onboarding,omitempty"`
	Message    string          `json:"message,omitempty"`
}
