package ports

import "context"

// Port: string key-value storage for user preferences and the last run.
type PreferenceStore interface {
	// Return the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}
