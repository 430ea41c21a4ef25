package domain

import (
	"context"
	"time"
)

// SearchProvider is the single capability interface every product source
// implements. Providers are side-effect-free with respect to each other and
// hold no shared state; each Search call returns a fresh candidate list in a
// stable, source-determined order.
type SearchProvider interface {
	// Search returns raw candidates for the intent. Returning an empty list
	// is a normal outcome, not an error.
	Search(ctx context.Context, intent *SearchIntent) ([]Candidate, error)

	// IsAvailable reports whether the provider can currently serve searches.
	IsAvailable() bool

	// Name identifies the provider, e.g. "amazon" or "catalog:electronics".
	Name() string
}

// CacheRepository defines the interface for caching assembled search results
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
