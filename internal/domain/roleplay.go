package domain

// RoleplaySetup carries the categorical answers that parameterize a
// role-play scenario. Every field must be populated before a session starts.
type RoleplaySetup struct {
	ScenarioType       string `json:"scenario_type"`
	Relationship       string `json:"relationship"`
	CommunicationStyle string `json:"communication_style"`
	JobLevel           string `json:"job_level"`
	Industry           string `json:"industry"`
	SpecificGoal       string `json:"specific_goal"`
	ChallengeLevel     string `json:"challenge_level"`
	TimeConstraint     string `json:"time_constraint"`
	Stakes             string `json:"stakes"`
	PersonalStyle      string `json:"personal_style"`
	PastExperience     string `json:"past_experience"`
}

// Missing returns the names of setup fields that are still empty
func (s *RoleplaySetup) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"scenario_type", s.ScenarioType},
		{"relationship", s.Relationship},
		{"communication_style", s.CommunicationStyle},
		{"job_level", s.JobLevel},
		{"industry", s.Industry},
		{"specific_goal", s.SpecificGoal},
		{"challenge_level", s.ChallengeLevel},
		{"time_constraint", s.TimeConstraint},
		{"stakes", s.Stakes},
		{"personal_style", s.PersonalStyle},
		{"past_experience", s.PastExperience},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Complete reports whether every setup field is populated
func (s *RoleplaySetup) Complete() bool {
	return len(s.Missing()) == 0
}

// Turn is one exchange in a role-play transcript
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StartRoleplayResponse is the payload of POST /chat/start_roleplay
type StartRoleplayResponse struct {
	Success             bool   `json:"success"`
	RoleplayPrompt      string `json:"roleplay_prompt"`
	ScenarioAndResponse string `json:"scenario_and_response"`
	Error               string `json:"error,omitempty"`
}

// ContinueRoleplayResponse is the payload of POST /chat/continue_roleplay
type ContinueRoleplayResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// EndRoleplayResponse is the payload of POST /chat/end_roleplay
type EndRoleplayResponse struct {
	Success  bool   `json:"success"`
	Critique string `json:"critique"`
	Error    string `json:"error,omitempty"`
}

// GenerateScenarioResponse is the payload of the legacy POST /generate_scenario
type GenerateScenarioResponse struct {
	Success  bool   `json:"success"`
	Scenario string `json:"scenario"`
	Error    string `json:"error,omitempty"`
}

// CritiqueResponse is the payload of the legacy POST /critique_response
type CritiqueResponse struct {
	Success  bool   `json:"success"`
	Critique string `json:"critique"`
	Error    string `json:"error,omitempty"`
}
