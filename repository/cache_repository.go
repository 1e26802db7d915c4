package repository

// CacheRepository stores generator replies keyed by a content hash.
// Implementations must be safe for concurrent use.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	// Len is the approximate number of entries currently held.
	Len() int
}
