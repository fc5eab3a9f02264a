package domain

// Persistence keys.
const (
	KeyDesignSystems = "email-builder-design-systems"
	KeyTemplates     = "email-builder-templates"
	KeySession       = "email-builder-session"
)

// KVStore abstracts the string key-value store that design systems and
// templates are persisted to.
type KVStore interface {
	// Get returns the stored value, or "" and nil if the key doesn't exist.
	Get(key string) (string, error)

	// Set stores a value, replacing any previous one.
	Set(key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error
}
