package domain

import "errors"

var (
	// ErrInvalidIntent is returned when a search intent is structurally invalid
	ErrInvalidIntent = errors.New("invalid search intent")

	// ErrSourceUnavailable is returned when a source provider cannot serve requests
	ErrSourceUnavailable = errors.New("source provider unavailable")

	// ErrSourceFailure is returned when a source API request fails
	ErrSourceFailure = errors.New("source API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
