package domain

// Candidate represents one product observation from one source.
// ID is unique only within its store; the composite (store, id) key is the
// global identity used for deduplication.
type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency,omitempty"`
	Store         string   `json:"store"`
	Category      string   `json:"category,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   *int     `json:"reviewCount,omitempty"`
	ShippingDays  *int     `json:"shippingDays,omitempty"`
	ShippingPrice *float64 `json:"shippingPrice,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	URL           string   `json:"url,omitempty"`
	AffiliateURL  string   `json:"affiliateUrl,omitempty"`
}

// Key returns the composite dedup key for the candidate. Both parts compare
// case-insensitively: sources disagree on store-name and SKU casing.
func (c Candidate) Key() string {
	return lowerASCII(c.Store) + "|" + lowerASCII(c.ID)
}

// lowerASCII lowercases A-Z only. Text normalization in this service is
// deliberately ASCII-range; anything beyond that passes through untouched.
func lowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// Badge is a single-winner recommendation label. At most one candidate per
// badge per result set, at most one badge per candidate.
type Badge string

const (
	BadgeNone       Badge = ""
	BadgeBestChoice Badge = "best_choice"
	BadgeBestValue  Badge = "best_value"
	BadgeFastest    Badge = "fastest"
	BadgeCheapest   Badge = "cheapest"
)

// ScoredCandidate is a filtered candidate plus its relevance score and the
// badge assigned by the ranker, if any.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
	Badge Badge   `json:"badge,omitempty"`
}
