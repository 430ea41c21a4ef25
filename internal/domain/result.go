package domain

import "time"

// SearchResult is the assembled response for one search: the filtered,
// scored, badge-annotated shortlist in ranking order.
type SearchResult struct {
	Query    string            `json:"query"`
	Results  []ScoredCandidate `json:"results"`
	Total    int               `json:"total"`
	Source   string            `json:"source"` // "Live" or "Cache"
	TookMs   int64             `json:"tookMs"`
	CachedAt time.Time         `json:"cachedAt,omitzero"`
}
