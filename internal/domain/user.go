package domain

// UserProfile represents the backend's view of a user, created server-side
// on first sync and held client-side as a read-mostly cached copy
type UserProfile struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Nickname      string `json:"nickname,omitempty"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// SyncStatus reports whether the user has been synced to the backend database
type SyncStatus struct {
	Synced       bool   `json:"synced"`
	UserID       string `json:"user_id,omitempty"`
	LastSyncedAt string `json:"last_synced_at,omitempty"`
}

// AuthConfig is the identity provider configuration exposed by the backend
type AuthConfig struct {
	Domain   string `json:"domain"`
	ClientID string `json:"client_id"`
	Audience string `json:"audience,omitempty"`
}
