package domain

// SavedTemplate is a named, persisted document.
type SavedTemplate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Document  Document `json:"document"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

// SessionState is the small record that lets a session resume where the
// last one stopped.
type SessionState struct {
	ActiveDesignSystemID string `json:"activeDesignSystemId,omitempty"`
	CurrentTemplateID    string `json:"currentTemplateId,omitempty"`
}
